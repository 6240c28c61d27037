package manager

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quilled/quill/internal/engine"
	"github.com/quilled/quill/internal/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestOpenReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "hello\nworld\n")

	m := New(logging.Null)
	if err := m.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if cur, ok := m.Current(); !ok || cur != path {
		t.Errorf("Current() = %q, %v, want %q, true", cur, ok, path)
	}

	err := m.With(path, func(doc *engine.Document) error {
		if got := doc.Text(); got != "hello\nworld\n" {
			t.Errorf("Text() = %q", got)
		}
		if doc.IsDirty() {
			t.Error("freshly opened document is dirty")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	m := New(logging.Null)
	if err := m.Open(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("Open of a missing file succeeded")
	}
}

func TestOpenTwiceKeepsDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "abc")

	m := New(logging.Null)
	if err := m.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = m.With(path, func(doc *engine.Document) error {
		doc.InsertText("x")
		return nil
	})
	if err := m.Open(path); err != nil {
		t.Fatalf("second Open: %v", err)
	}
	_ = m.With(path, func(doc *engine.Document) error {
		if !doc.IsDirty() {
			t.Error("reopening discarded the in-memory document")
		}
		return nil
	})
}

func TestNewUntitled(t *testing.T) {
	m := New(logging.Null)
	a := m.NewUntitled()
	b := m.NewUntitled()

	if !strings.HasPrefix(a, "untitled-") || !strings.HasPrefix(b, "untitled-") {
		t.Errorf("untitled names %q, %q lack prefix", a, b)
	}
	if a == b {
		t.Errorf("untitled names collide: %q", a)
	}
	if cur, _ := m.Current(); cur != b {
		t.Errorf("Current() = %q, want %q", cur, b)
	}
}

func TestWithNotOpen(t *testing.T) {
	m := New(logging.Null)
	err := m.With("/nope", func(*engine.Document) error { return nil })
	if !errors.Is(err, ErrNotOpen) {
		t.Errorf("With on unknown path = %v, want ErrNotOpen", err)
	}
}

func TestWithCurrentNoCurrent(t *testing.T) {
	m := New(logging.Null)
	err := m.WithCurrent(func(*engine.Document) error { return nil })
	if !errors.Is(err, ErrNoCurrent) {
		t.Errorf("WithCurrent = %v, want ErrNoCurrent", err)
	}
}

func TestSaveWritesAndMarksClean(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one")

	m := New(logging.Null)
	if err := m.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = m.With(path, func(doc *engine.Document) error {
		doc.InsertText(" two")
		return nil
	})

	if !m.HasUnsavedChanges() {
		t.Fatal("edit did not mark the document unsaved")
	}
	if err := m.SaveCurrent(); err != nil {
		t.Fatalf("SaveCurrent: %v", err)
	}
	if m.HasUnsavedChanges() {
		t.Error("save left unsaved changes")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := string(data); got != " twoone" {
		t.Errorf("saved file = %q", got)
	}
}

func TestSaveCurrentNoCurrent(t *testing.T) {
	m := New(logging.Null)
	if err := m.SaveCurrent(); !errors.Is(err, ErrNoCurrent) {
		t.Errorf("SaveCurrent = %v, want ErrNoCurrent", err)
	}
}

func TestCloseClearsCurrent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "abc")

	m := New(logging.Null)
	if err := m.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := m.Close(path); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := m.Current(); ok {
		t.Error("Current() still set after Close")
	}
	if err := m.Close(path); !errors.Is(err, ErrNotOpen) {
		t.Errorf("double Close = %v, want ErrNotOpen", err)
	}
}

func TestSetCurrent(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "a")
	b := writeFile(t, dir, "b.txt", "b")

	m := New(logging.Null)
	if err := m.Open(a); err != nil {
		t.Fatalf("Open a: %v", err)
	}
	if err := m.Open(b); err != nil {
		t.Fatalf("Open b: %v", err)
	}
	if err := m.SetCurrent(a); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if cur, _ := m.Current(); cur != a {
		t.Errorf("Current() = %q, want %q", cur, a)
	}
	if err := m.SetCurrent("/nope"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("SetCurrent unknown = %v, want ErrNotOpen", err)
	}
}

func TestUnsavedPaths(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "a")
	b := writeFile(t, dir, "b.txt", "b")

	m := New(logging.Null)
	for _, p := range []string{a, b} {
		if err := m.Open(p); err != nil {
			t.Fatalf("Open %s: %v", p, err)
		}
	}
	_ = m.With(a, func(doc *engine.Document) error {
		doc.InsertText("x")
		return nil
	})

	unsaved := m.UnsavedPaths()
	if len(unsaved) != 1 || unsaved[0] != a {
		t.Errorf("UnsavedPaths() = %v, want [%s]", unsaved, a)
	}
	if got := len(m.OpenPaths()); got != 2 {
		t.Errorf("OpenPaths() has %d entries, want 2", got)
	}
}

func TestManagerOptionsApply(t *testing.T) {
	m := New(logging.Null, engine.WithContent("seed"))
	name := m.NewUntitled()
	_ = m.With(name, func(doc *engine.Document) error {
		if got := doc.Text(); got != "seed" {
			t.Errorf("Text() = %q, want %q", got, "seed")
		}
		return nil
	})
}
