package lsp

import (
	"errors"
	"testing"

	"go.lsp.dev/protocol"

	"github.com/quilled/quill/internal/engine"
	"github.com/quilled/quill/internal/engine/cursor"
)

type sentNotification struct {
	method string
	params any
}

func newCapturingSender() (*[]sentNotification, Sender) {
	var sent []sentNotification
	return &sent, func(method string, params any) error {
		sent = append(sent, sentNotification{method: method, params: params})
		return nil
	}
}

func TestOpenSendsFullText(t *testing.T) {
	doc := engine.New(engine.WithContent("package main\n"))
	sent, send := newCapturingSender()
	n := NewNotifier("file:///main.go", "go", send)

	if err := n.Open(doc); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(*sent))
	}
	got := (*sent)[0]
	if got.method != protocol.MethodTextDocumentDidOpen {
		t.Errorf("method = %q", got.method)
	}
	params, ok := got.params.(protocol.DidOpenTextDocumentParams)
	if !ok {
		t.Fatalf("params type %T", got.params)
	}
	if params.TextDocument.Text != "package main\n" {
		t.Errorf("text = %q", params.TextDocument.Text)
	}
	if params.TextDocument.LanguageID != "go" {
		t.Errorf("language = %q", params.TextDocument.LanguageID)
	}
	if params.TextDocument.Version != 1 {
		t.Errorf("version = %d, want 1", params.TextDocument.Version)
	}
}

func TestOpenTwiceRequiresClose(t *testing.T) {
	doc := engine.New(engine.WithContent("abc"))
	sent, send := newCapturingSender()
	n := NewNotifier("file:///a.txt", "plaintext", send)

	if err := n.Open(doc); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := n.Open(doc); !errors.Is(err, ErrAlreadyOpened) {
		t.Fatalf("second Open = %v, want ErrAlreadyOpened", err)
	}
	if len(*sent) != 1 {
		t.Errorf("sent %d notifications, want only the first didOpen", len(*sent))
	}

	// After a Close the document can be announced again.
	if err := n.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := n.Open(doc); err != nil {
		t.Fatalf("Open after Close: %v", err)
	}
}

func TestSyncOnlyOnChange(t *testing.T) {
	doc := engine.New(engine.WithContent("abc"))
	sent, send := newCapturingSender()
	n := NewNotifier("file:///a.txt", "plaintext", send)

	if err := n.Open(doc); err != nil {
		t.Fatalf("Open: %v", err)
	}

	changed, err := n.Sync(doc)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if changed {
		t.Error("Sync reported a change for an untouched document")
	}

	doc.InsertText("x")
	changed, err = n.Sync(doc)
	if err != nil {
		t.Fatalf("Sync after edit: %v", err)
	}
	if !changed {
		t.Fatal("Sync missed an edit")
	}

	last := (*sent)[len(*sent)-1]
	if last.method != protocol.MethodTextDocumentDidChange {
		t.Errorf("method = %q", last.method)
	}
	params := last.params.(protocol.DidChangeTextDocumentParams)
	if params.TextDocument.Version != 2 {
		t.Errorf("version = %d, want 2", params.TextDocument.Version)
	}
	if len(params.ContentChanges) != 1 || params.ContentChanges[0].Text != "xabc" {
		t.Errorf("content changes = %+v", params.ContentChanges)
	}

	// A second Sync with no further edits is quiet.
	changed, _ = n.Sync(doc)
	if changed {
		t.Error("Sync resent an already synchronized version")
	}
}

func TestSyncBeforeOpen(t *testing.T) {
	doc := engine.New()
	_, send := newCapturingSender()
	n := NewNotifier("file:///a.txt", "plaintext", send)

	if _, err := n.Sync(doc); !errors.Is(err, ErrNotOpened) {
		t.Errorf("Sync before Open = %v, want ErrNotOpened", err)
	}
	if err := n.Close(); !errors.Is(err, ErrNotOpened) {
		t.Errorf("Close before Open = %v, want ErrNotOpened", err)
	}
}

func TestSendFailureKeepsState(t *testing.T) {
	doc := engine.New(engine.WithContent("abc"))
	fail := errors.New("pipe closed")
	failing := false
	var sent []sentNotification
	n := NewNotifier("file:///a.txt", "plaintext", func(method string, params any) error {
		if failing {
			return fail
		}
		sent = append(sent, sentNotification{method: method, params: params})
		return nil
	})

	if err := n.Open(doc); err != nil {
		t.Fatalf("Open: %v", err)
	}

	doc.InsertText("x")
	failing = true
	if _, err := n.Sync(doc); !errors.Is(err, fail) {
		t.Fatalf("Sync = %v, want send error", err)
	}

	// The failed change is retried on the next Sync with the same version.
	failing = false
	changed, err := n.Sync(doc)
	if err != nil {
		t.Fatalf("retry Sync: %v", err)
	}
	if !changed {
		t.Fatal("retry Sync did not resend")
	}
	params := sent[len(sent)-1].params.(protocol.DidChangeTextDocumentParams)
	if params.TextDocument.Version != 2 {
		t.Errorf("retried version = %d, want 2", params.TextDocument.Version)
	}
}

func TestClose(t *testing.T) {
	doc := engine.New()
	sent, send := newCapturingSender()
	n := NewNotifier("file:///a.txt", "plaintext", send)

	if err := n.Open(doc); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	last := (*sent)[len(*sent)-1]
	if last.method != protocol.MethodTextDocumentDidClose {
		t.Errorf("method = %q", last.method)
	}
	if err := n.Close(); !errors.Is(err, ErrNotOpened) {
		t.Errorf("double Close = %v, want ErrNotOpened", err)
	}
}

func TestPositionAndRangeConversion(t *testing.T) {
	p := PositionFor(cursor.New(3, 7))
	if p.Line != 3 || p.Character != 7 {
		t.Errorf("PositionFor = %+v", p)
	}

	// Backward selection still converts start-first.
	r := RangeFor(cursor.NewSelection(cursor.New(2, 5), cursor.New(1, 0)))
	if r.Start.Line != 1 || r.Start.Character != 0 || r.End.Line != 2 || r.End.Character != 5 {
		t.Errorf("RangeFor = %+v", r)
	}
}
