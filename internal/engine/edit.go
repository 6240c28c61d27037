package engine

import (
	"sort"
	"strings"

	"github.com/quilled/quill/internal/engine/cursor"
	"github.com/quilled/quill/internal/engine/history"
	"github.com/quilled/quill/internal/engine/textstore"
)

// pendingInsert is one selection's contribution to an insert batch, in char
// offsets captured before any mutation.
type pendingInsert struct {
	start    int
	end      int
	replaced string
	pos      cursor.Position // caret base: active end for carets, start for ranges
}

// InsertText inserts text at every cursor, replacing any selected ranges.
// Overlapping selections are merged into one edit and leave one caret. The
// whole operation is a single atomic store batch, bumps the version once,
// and commits one undo record. Empty text is a complete no-op.
func (d *Document) InsertText(text string) {
	if text == "" || len(d.selections) == 0 {
		return
	}

	edits := make([]pendingInsert, 0, len(d.selections))
	for _, sel := range d.selections {
		startPos := sel.Start()
		start := d.CharIndex(startPos)
		end := start
		pos := startPos
		if sel.IsCollapsed() {
			pos = sel.Active
		} else {
			end = d.CharIndex(sel.End())
		}

		var replaced string
		if end > start {
			replaced = d.store.TextRange(start, end)
		}
		edits = append(edits, pendingInsert{start: start, end: end, replaced: replaced, pos: pos})
	}

	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	// Merge overlapping ranges. The merged edit keeps the earliest caret
	// base and re-reads the union's replaced text.
	norm := edits[:0:0]
	for _, e := range edits {
		if len(norm) > 0 {
			last := &norm[len(norm)-1]
			if e.start < last.end {
				if e.end > last.end {
					last.end = e.end
				}
				last.replaced = d.store.TextRange(last.start, last.end)
				continue
			}
		}
		norm = append(norm, e)
	}

	beforeCursors := d.Cursors()
	beforeSelections := d.Selections()

	// Apply highest-start first so earlier edits keep their offsets.
	batch := make([]textstore.Edit, 0, len(norm))
	for i := len(norm) - 1; i >= 0; i-- {
		batch = append(batch, textstore.Edit{
			Start:     norm[i].start,
			RemoveLen: norm[i].end - norm[i].start,
			Insert:    text,
		})
	}
	d.store.Apply(batch)
	d.dirty = true

	insertedLen, newlines, tailLen := measureInsert(text)

	cursors := make([]cursor.Position, len(norm))
	selections := make([]cursor.Selection, len(norm))
	for i, e := range norm {
		var c cursor.Position
		if newlines == 0 {
			c = cursor.New(e.pos.Line, e.pos.Column+insertedLen)
		} else {
			c = cursor.New(e.pos.Line+newlines, tailLen)
		}
		cursors[i] = c
		selections[i] = cursor.Caret(c)
	}
	d.cursors = cursors
	d.selections = selections

	recEdits := make([]history.ReplaceEdit, len(norm))
	inserted := make([]string, len(norm))
	for i, e := range norm {
		recEdits[i] = history.ReplaceEdit{Start: e.start, Replaced: e.replaced}
		inserted[i] = text
	}
	d.commit(&history.InsertRecord{
		Edits:            recEdits,
		Inserted:         inserted,
		BeforeCursors:    beforeCursors,
		BeforeSelections: beforeSelections,
		AfterCursors:     d.Cursors(),
		AfterSelections:  d.Selections(),
		At:               d.now(),
	})
}

// InsertTextAt places a single caret at the given position and inserts.
func (d *Document) InsertTextAt(p cursor.Position, text string) {
	if text == "" {
		return
	}
	d.SetCursor(p)
	d.InsertText(text)
}

// InsertLineBreak inserts a newline at every cursor.
func (d *Document) InsertLineBreak() {
	d.InsertText("\n")
}

// InsertTab inserts width spaces at every cursor. A non-positive width
// falls back to the configured tab width.
func (d *Document) InsertTab(width int) {
	if width <= 0 {
		width = d.tabWidth
	}
	d.InsertText(strings.Repeat(" ", width))
}

// measureInsert returns the char count of text, its newline count, and the
// char count after the last newline.
func measureInsert(text string) (chars, newlines, tail int) {
	for _, r := range text {
		chars++
		if r == '\n' {
			newlines++
			tail = 0
		} else {
			tail++
		}
	}
	return chars, newlines, tail
}

type deleteDirection int

const (
	deleteBackward deleteDirection = iota
	deleteForward
)

// DeleteBackward deletes one char before every caret (joining lines at
// column 0) and deletes selected ranges outright.
func (d *Document) DeleteBackward() {
	d.deleteAtCursors(deleteBackward)
}

// DeleteForward deletes one char after every caret (joining lines at line
// end) and deletes selected ranges outright.
func (d *Document) DeleteForward() {
	d.deleteAtCursors(deleteForward)
}

func (d *Document) deleteAtCursors(dir deleteDirection) {
	edits := d.collectDeleteEdits(dir)
	if len(edits) == 0 {
		return
	}

	beforeCursors := d.Cursors()
	beforeSelections := d.Selections()

	d.applyDeleteEdits(edits)

	d.commit(&history.DeleteRecord{
		Edits:            edits,
		BeforeCursors:    beforeCursors,
		BeforeSelections: beforeSelections,
		AfterCursors:     d.Cursors(),
		AfterSelections:  d.Selections(),
		At:               d.now(),
	})
}

// collectDeleteEdits computes the char spans to remove, in selection index
// order. Selections that produce no edit (a caret at the buffer edge) are
// skipped and keep their cursor unchanged.
func (d *Document) collectDeleteEdits(dir deleteDirection) []history.DeleteEdit {
	var edits []history.DeleteEdit
	for i, sel := range d.selections {
		if sel.IsCollapsed() {
			if e, ok := d.collapsedDeleteEdit(i, sel.Active, dir); ok {
				edits = append(edits, e)
			}
			continue
		}

		startPos := sel.Start()
		start := d.CharIndex(startPos)
		end := d.CharIndex(sel.End())
		if end <= start {
			continue
		}
		edits = append(edits, history.DeleteEdit{
			Index:   i,
			Start:   start,
			Length:  end - start,
			Caret:   startPos,
			Deleted: d.store.TextRange(start, end),
		})
	}
	return edits
}

// collapsedDeleteEdit computes the single-char delete for a caret, handling
// the line-joining boundaries.
func (d *Document) collapsedDeleteEdit(index int, p cursor.Position, dir deleteDirection) (history.DeleteEdit, bool) {
	if dir == deleteBackward {
		if p.Column > 0 {
			idx := d.CharIndex(p)
			return history.DeleteEdit{
				Index:   index,
				Start:   idx - 1,
				Length:  1,
				Caret:   cursor.New(p.Line, p.Column-1),
				Deleted: d.store.TextRange(idx-1, idx),
			}, true
		}
		if p.Line == 0 {
			// Start of buffer.
			return history.DeleteEdit{}, false
		}
		lineStart := d.store.LineToChar(p.Line)
		if lineStart == 0 {
			return history.DeleteEdit{}, false
		}
		prevLen, _ := d.store.LineLen(p.Line - 1)
		return history.DeleteEdit{
			Index:   index,
			Start:   lineStart - 1,
			Length:  1,
			Caret:   cursor.New(p.Line-1, prevLen),
			Deleted: d.store.TextRange(lineStart-1, lineStart),
		}, true
	}

	// Forward.
	lineLen, ok := d.store.LineLen(p.Line)
	if !ok {
		return history.DeleteEdit{}, false
	}
	idx := d.CharIndex(p)
	if p.Column < lineLen {
		return history.DeleteEdit{
			Index:   index,
			Start:   idx,
			Length:  1,
			Caret:   p,
			Deleted: d.store.TextRange(idx, idx+1),
		}, true
	}
	if p.Line+1 < d.store.LineCount() {
		// At line end: delete the following newline, joining the lines.
		return history.DeleteEdit{
			Index:   index,
			Start:   idx,
			Length:  1,
			Caret:   p,
			Deleted: d.store.TextRange(idx, idx+1),
		}, true
	}
	return history.DeleteEdit{}, false
}

// applyDeleteEdits removes the spans highest-start first as one store batch
// and moves each edited selection's caret.
func (d *Document) applyDeleteEdits(edits []history.DeleteEdit) {
	ordered := make([]history.DeleteEdit, len(edits))
	copy(ordered, edits)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start > ordered[j].Start })

	batch := make([]textstore.Edit, len(ordered))
	for i, e := range ordered {
		batch[i] = textstore.Edit{Start: e.Start, RemoveLen: e.Length}
	}
	d.store.Apply(batch)
	d.dirty = true

	for _, e := range edits {
		if e.Index < len(d.cursors) {
			d.cursors[e.Index] = e.Caret
		}
		if e.Index < len(d.selections) {
			d.selections[e.Index] = cursor.Caret(e.Caret)
		}
	}
}
