package ai

import (
	"fmt"
	"strings"
	"testing"

	"github.com/quilled/quill/internal/engine"
	"github.com/quilled/quill/internal/engine/cursor"
)

func TestBuildWithSelection(t *testing.T) {
	doc := engine.New(engine.WithContent("func main() {\n\tprintln(\"hi\")\n}\n"))
	doc.SetSelection(cursor.NewSelection(cursor.New(1, 1), cursor.New(1, 14)))

	var b Builder
	ctx := b.Build(doc, "main.go", "go")

	if ctx.Path != "main.go" || ctx.Language != "go" {
		t.Errorf("Path/Language = %q/%q", ctx.Path, ctx.Language)
	}
	if ctx.Line != 1 || ctx.Column != 14 {
		t.Errorf("cursor = (%d,%d), want (1,14)", ctx.Line, ctx.Column)
	}
	if ctx.Selection == nil {
		t.Fatal("selection missing from context")
	}
	if ctx.Selection.Text != "println(\"hi\")" {
		t.Errorf("selection text = %q", ctx.Selection.Text)
	}
	if ctx.Selection.StartLine != 1 || ctx.Selection.StartColumn != 1 {
		t.Errorf("selection start = (%d,%d)", ctx.Selection.StartLine, ctx.Selection.StartColumn)
	}
	if !strings.Contains(ctx.Snippet, "func main() {") {
		t.Errorf("snippet missing surrounding code: %q", ctx.Snippet)
	}
}

func TestBuildCollapsedSelectionOmitted(t *testing.T) {
	doc := engine.New(engine.WithContent("abc"))
	doc.SetCursor(cursor.New(0, 2))

	var b Builder
	ctx := b.Build(doc, "a.txt", "plaintext")

	if ctx.Selection != nil {
		t.Errorf("collapsed caret produced a selection: %+v", ctx.Selection)
	}
	if ctx.Line != 0 || ctx.Column != 2 {
		t.Errorf("cursor = (%d,%d)", ctx.Line, ctx.Column)
	}
}

func TestBuildSelectionTracksLiveText(t *testing.T) {
	doc := engine.New(engine.WithContent("hello world"))
	doc.SetSelection(cursor.NewSelection(cursor.New(0, 0), cursor.New(0, 5)))
	doc.InsertText("goodbye")
	doc.SetSelection(cursor.NewSelection(cursor.New(0, 0), cursor.New(0, 7)))

	var b Builder
	ctx := b.Build(doc, "a.txt", "plaintext")

	if ctx.Selection == nil || ctx.Selection.Text != "goodbye" {
		t.Fatalf("selection = %+v, want live text %q", ctx.Selection, "goodbye")
	}
	if ctx.Version != doc.Version() {
		t.Errorf("Version = %d, want %d", ctx.Version, doc.Version())
	}
}

func TestSnippetWindow(t *testing.T) {
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, fmt.Sprintf("line %02d", i))
	}
	doc := engine.New(engine.WithContent(strings.Join(lines, "\n")))
	doc.SetCursor(cursor.New(50, 0))

	b := Builder{MaxSnippetLines: 10}
	ctx := b.Build(doc, "big.txt", "plaintext")

	got := strings.Split(ctx.Snippet, "\n")
	if len(got) != 10 {
		t.Fatalf("snippet has %d lines, want 10", len(got))
	}
	if got[0] != "line 45" || got[9] != "line 54" {
		t.Errorf("snippet window = %q .. %q", got[0], got[9])
	}
}

func TestSnippetWindowClampsAtEdges(t *testing.T) {
	doc := engine.New(engine.WithContent("a\nb\nc"))

	b := Builder{MaxSnippetLines: 10}
	ctx := b.Build(doc, "a.txt", "plaintext")

	if ctx.Snippet != "a\nb\nc" {
		t.Errorf("snippet = %q", ctx.Snippet)
	}
}

func TestTruncateGraphemes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short unchanged", "hello", 10, "hello"},
		{"ascii cut", "hello", 3, "hel"},
		{"kanji cut", "日本語です", 2, "日本"},
		{"combining kept whole", "e\u0301e\u0301e\u0301", 2, "e\u0301e\u0301"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestBuildTruncatesSelection(t *testing.T) {
	long := strings.Repeat("x", 500)
	doc := engine.New(engine.WithContent(long))
	doc.SetSelection(cursor.NewSelection(cursor.New(0, 0), cursor.New(0, 500)))

	b := Builder{MaxChars: 100}
	ctx := b.Build(doc, "a.txt", "plaintext")

	if ctx.Selection == nil || len(ctx.Selection.Text) != 100 {
		t.Fatalf("selection length = %d, want 100", len(ctx.Selection.Text))
	}
	if len(ctx.Snippet) != 100 {
		t.Errorf("snippet length = %d, want 100", len(ctx.Snippet))
	}
}

func TestPromptMessage(t *testing.T) {
	doc := engine.New(engine.WithContent("let x = 1;\nlet y = 2;"))
	doc.SetSelection(cursor.NewSelection(cursor.New(1, 0), cursor.New(1, 10)))

	var b Builder
	msg := b.Build(doc, "src/vars.js", "javascript").PromptMessage()

	for _, want := range []string{
		"## Current File",
		"Language: javascript",
		"Path: src/vars.js",
		"## File Content",
		"## Selected Code",
		"Position: L1-C0 to L1-C10",
		"```javascript\nlet y = 2;\n```",
		"## Cursor Position\nLine: 1, Column: 10",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestPromptMessageNoSelection(t *testing.T) {
	doc := engine.New(engine.WithContent("abc"))

	var b Builder
	msg := b.Build(doc, "", "plaintext").PromptMessage()

	if strings.Contains(msg, "## Selected Code") {
		t.Error("prompt includes a selection section without a selection")
	}
	if strings.Contains(msg, "Path:") {
		t.Error("prompt includes an empty path")
	}
}
