// Package ai assembles editor state into prompt context for an assistant.
// The selection text is read from the live document, not reconstructed, so
// the prompt always matches what the user has highlighted.
package ai

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/quilled/quill/internal/engine"
)

const (
	// DefaultMaxSnippetLines bounds the lines of surrounding code included.
	DefaultMaxSnippetLines = 40

	// DefaultMaxChars bounds selection and snippet text, in grapheme clusters.
	DefaultMaxChars = 4000
)

// Builder extracts prompt context from documents.
type Builder struct {
	// MaxSnippetLines is the snippet window height. Zero means the default.
	MaxSnippetLines int

	// MaxChars caps selection and snippet length in grapheme clusters.
	// Zero means the default.
	MaxChars int
}

// Selection describes highlighted text, positions 0-indexed.
type Selection struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
	Text        string
}

// Context is a snapshot of the editing state around the primary cursor.
type Context struct {
	Path      string
	Language  string
	Line      int
	Column    int
	Version   uint64
	Selection *Selection
	Snippet   string
}

// Build snapshots the document's primary cursor, selection, and a window of
// surrounding lines.
func (b *Builder) Build(doc *engine.Document, path, language string) Context {
	maxLines := b.MaxSnippetLines
	if maxLines <= 0 {
		maxLines = DefaultMaxSnippetLines
	}
	maxChars := b.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	ctx := Context{
		Path:     path,
		Language: language,
		Version:  doc.Version(),
	}

	cursors := doc.Cursors()
	if len(cursors) > 0 {
		ctx.Line = cursors[0].Line
		ctx.Column = cursors[0].Column
	}

	selections := doc.Selections()
	if len(selections) > 0 && !selections[0].IsCollapsed() {
		sel := selections[0]
		start, end := sel.Start(), sel.End()
		ctx.Selection = &Selection{
			StartLine:   start.Line,
			StartColumn: start.Column,
			EndLine:     end.Line,
			EndColumn:   end.Column,
			Text:        truncate(doc.TextInRange(sel), maxChars),
		}
	}

	ctx.Snippet = truncate(b.snippet(doc, ctx.Line, maxLines), maxChars)
	return ctx
}

// snippet returns up to maxLines lines centered on the cursor line.
func (b *Builder) snippet(doc *engine.Document, line, maxLines int) string {
	total := doc.LineCount()
	first := line - maxLines/2
	if first < 0 {
		first = 0
	}
	last := first + maxLines
	if last > total {
		last = total
		if first = last - maxLines; first < 0 {
			first = 0
		}
	}

	var sb strings.Builder
	for i := first; i < last; i++ {
		text, ok := doc.Line(i)
		if !ok {
			break
		}
		sb.WriteString(text)
		if i+1 < last {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// PromptMessage renders the context as a markdown user message.
func (c Context) PromptMessage() string {
	var sb strings.Builder

	sb.WriteString("## Current File\n")
	fmt.Fprintf(&sb, "Language: %s\n", c.Language)
	if c.Path != "" {
		fmt.Fprintf(&sb, "Path: %s\n", c.Path)
	}
	sb.WriteString("\n")

	if c.Snippet != "" {
		sb.WriteString("## File Content\n")
		fmt.Fprintf(&sb, "```%s\n%s\n```\n\n", c.Language, c.Snippet)
	}

	if c.Selection != nil {
		sb.WriteString("## Selected Code\n")
		fmt.Fprintf(&sb, "Position: L%d-C%d to L%d-C%d\n",
			c.Selection.StartLine, c.Selection.StartColumn,
			c.Selection.EndLine, c.Selection.EndColumn)
		fmt.Fprintf(&sb, "```%s\n%s\n```\n\n", c.Language, c.Selection.Text)
	}

	fmt.Fprintf(&sb, "## Cursor Position\nLine: %d, Column: %d\n\n", c.Line, c.Column)
	sb.WriteString("Please provide helpful code suggestions, explanations, or improvements based on the above context.")

	return sb.String()
}

// truncate cuts s to at most max grapheme clusters, never splitting one.
func truncate(s string, max int) string {
	if max <= 0 || uniseg.GraphemeClusterCount(s) <= max {
		return s
	}
	g := uniseg.NewGraphemes(s)
	count := 0
	end := 0
	for g.Next() {
		count++
		_, end = g.Positions()
		if count == max {
			break
		}
	}
	return s[:end]
}
