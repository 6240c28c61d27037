package engine

import (
	"sort"
	"unicode/utf8"

	"github.com/quilled/quill/internal/engine/cursor"
	"github.com/quilled/quill/internal/engine/history"
	"github.com/quilled/quill/internal/engine/textstore"
)

// Undo reverts the most recent undo record and restores the cursor and
// selection state captured before it. Returns false when there is nothing
// to undo.
func (d *Document) Undo() bool {
	rec, ok := d.hist.PopUndo()
	if !ok {
		return false
	}

	switch r := rec.(type) {
	case *history.InsertRecord:
		d.applyInsertInverse(r)
		d.cursors = clonePositions(r.BeforeCursors)
		d.selections = cloneSelections(r.BeforeSelections)
	case *history.DeleteRecord:
		d.applyDeleteInverse(r)
		d.cursors = clonePositions(r.BeforeCursors)
		d.selections = cloneSelections(r.BeforeSelections)
	}
	d.dirty = true

	d.hist.PushRedo(rec)
	if !d.hist.CanUndo() {
		// Back at the last clean point.
		d.dirty = false
	}
	return true
}

// Redo reapplies the most recent undone record and restores the state
// captured after it. Returns false when there is nothing to redo.
func (d *Document) Redo() bool {
	rec, ok := d.hist.PopRedo()
	if !ok {
		return false
	}

	switch r := rec.(type) {
	case *history.InsertRecord:
		d.applyInsertForward(r)
		d.cursors = clonePositions(r.AfterCursors)
		d.selections = cloneSelections(r.AfterSelections)
	case *history.DeleteRecord:
		d.applyDeleteForward(r)
		d.cursors = clonePositions(r.AfterCursors)
		d.selections = cloneSelections(r.AfterSelections)
	}
	d.dirty = true

	if d.hist.PushUndo(rec) {
		d.dirty = false
	}
	return true
}

// applyInsertInverse removes each inserted text and restores what it
// replaced, highest offset first, as one store batch.
func (d *Document) applyInsertInverse(r *history.InsertRecord) {
	type pair struct {
		edit     history.ReplaceEdit
		inserted string
	}
	ordered := make([]pair, len(r.Edits))
	for i := range r.Edits {
		ordered[i] = pair{edit: r.Edits[i], inserted: r.Inserted[i]}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].edit.Start > ordered[j].edit.Start })

	batch := make([]textstore.Edit, len(ordered))
	for i, p := range ordered {
		batch[i] = textstore.Edit{
			Start:     p.edit.Start,
			RemoveLen: utf8.RuneCountInString(p.inserted),
			Insert:    p.edit.Replaced,
		}
	}
	d.store.Apply(batch)
}

// applyInsertForward reapplies an insert record, highest offset first.
func (d *Document) applyInsertForward(r *history.InsertRecord) {
	type pair struct {
		edit     history.ReplaceEdit
		inserted string
	}
	ordered := make([]pair, len(r.Edits))
	for i := range r.Edits {
		ordered[i] = pair{edit: r.Edits[i], inserted: r.Inserted[i]}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].edit.Start > ordered[j].edit.Start })

	batch := make([]textstore.Edit, len(ordered))
	for i, p := range ordered {
		batch[i] = textstore.Edit{
			Start:     p.edit.Start,
			RemoveLen: utf8.RuneCountInString(p.edit.Replaced),
			Insert:    p.inserted,
		}
	}
	d.store.Apply(batch)
}

// applyDeleteInverse reinserts deleted spans lowest offset first so each
// restored span lands at its original coordinates.
func (d *Document) applyDeleteInverse(r *history.DeleteRecord) {
	ordered := make([]history.DeleteEdit, len(r.Edits))
	copy(ordered, r.Edits)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	batch := make([]textstore.Edit, len(ordered))
	for i, e := range ordered {
		batch[i] = textstore.Edit{Start: e.Start, Insert: e.Deleted}
	}
	d.store.Apply(batch)
}

// applyDeleteForward re-removes deleted spans highest offset first.
func (d *Document) applyDeleteForward(r *history.DeleteRecord) {
	ordered := make([]history.DeleteEdit, len(r.Edits))
	copy(ordered, r.Edits)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start > ordered[j].Start })

	batch := make([]textstore.Edit, len(ordered))
	for i, e := range ordered {
		batch[i] = textstore.Edit{Start: e.Start, RemoveLen: e.Length}
	}
	d.store.Apply(batch)
}

func clonePositions(src []cursor.Position) []cursor.Position {
	out := make([]cursor.Position, len(src))
	copy(out, src)
	return out
}

func cloneSelections(src []cursor.Selection) []cursor.Selection {
	out := make([]cursor.Selection, len(src))
	copy(out, src)
	return out
}
