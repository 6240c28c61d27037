// Package history provides undo records for document edits, with
// time-window coalescing and a byte-budgeted stack that evicts the oldest
// records first.
package history

import (
	"time"
	"unicode/utf8"

	"github.com/quilled/quill/internal/engine/cursor"
)

// Default tuning for the undo stack.
const (
	// CoalesceWindow is the maximum gap between two edits that may merge
	// into a single undo step.
	CoalesceWindow = 750 * time.Millisecond

	// DefaultBudget caps the estimated byte cost of retained undo records.
	DefaultBudget = 5 * 1024 * 1024
)

// Estimated in-memory cost per retained snapshot entry.
const (
	positionCost  = 16
	selectionCost = 32
)

// Record is one undoable step. The concrete types are InsertRecord and
// DeleteRecord; the interface is sealed.
type Record interface {
	// Timestamp is when the step was committed.
	Timestamp() time.Time

	// Cost estimates the bytes this record keeps alive.
	Cost() int

	// Merge attempts to coalesce other (a newer record) into the receiver.
	// It reports whether the merge happened; on false both records are
	// left untouched. A merged step keeps its original timestamp, so the
	// coalescing window is measured from the first edit of a run, not the
	// latest.
	Merge(other Record) bool

	sealedRecord()
}

// ReplaceEdit is one normalized sub-edit of an insert step: text was
// inserted at Start, replacing Replaced (empty for a bare caret insert).
type ReplaceEdit struct {
	Start    int
	Replaced string
}

// InsertRecord captures a multi-cursor insert. Edits and Inserted are
// parallel slices ordered by ascending Start.
type InsertRecord struct {
	Edits            []ReplaceEdit
	Inserted         []string
	BeforeCursors    []cursor.Position
	BeforeSelections []cursor.Selection
	AfterCursors     []cursor.Position
	AfterSelections  []cursor.Selection
	At               time.Time
}

func (r *InsertRecord) sealedRecord() {}

// Timestamp implements Record.
func (r *InsertRecord) Timestamp() time.Time { return r.At }

// Cost implements Record.
func (r *InsertRecord) Cost() int {
	cost := 0
	for i := range r.Edits {
		cost += len(r.Edits[i].Replaced)
	}
	for i := range r.Inserted {
		cost += len(r.Inserted[i])
	}
	cost += (len(r.BeforeCursors) + len(r.AfterCursors)) * positionCost
	cost += (len(r.BeforeSelections) + len(r.AfterSelections)) * selectionCost
	return cost
}

// Merge coalesces a newer insert into this one when the newer insert is a
// pure continuation: same cursor count, no replaced text on either side,
// and each newer sub-edit starts exactly where the older one ended.
func (r *InsertRecord) Merge(other Record) bool {
	o, ok := other.(*InsertRecord)
	if !ok {
		return false
	}
	if len(o.Edits) != len(r.Edits) ||
		len(r.Inserted) != len(r.Edits) || len(o.Inserted) != len(o.Edits) {
		return false
	}

	// Validate every pair before touching anything.
	for i := range r.Edits {
		if r.Edits[i].Replaced != "" || o.Edits[i].Replaced != "" {
			return false
		}
		if o.Edits[i].Start != r.Edits[i].Start+utf8.RuneCountInString(r.Inserted[i]) {
			return false
		}
	}

	for i := range r.Inserted {
		r.Inserted[i] += o.Inserted[i]
	}
	r.AfterCursors = clonePositions(o.AfterCursors)
	r.AfterSelections = cloneSelections(o.AfterSelections)
	return true
}

// DeleteEdit is one sub-edit of a delete step: Length chars starting at
// Start were removed for the selection at Index, leaving the caret at
// Caret. Deleted holds the removed text for undo.
type DeleteEdit struct {
	Index   int
	Start   int
	Length  int
	Caret   cursor.Position
	Deleted string
}

// End returns the char offset just past the deleted span.
func (e DeleteEdit) End() int { return e.Start + e.Length }

// DeleteRecord captures a multi-cursor delete. Edits are ordered by
// selection index.
type DeleteRecord struct {
	Edits            []DeleteEdit
	BeforeCursors    []cursor.Position
	BeforeSelections []cursor.Selection
	AfterCursors     []cursor.Position
	AfterSelections  []cursor.Selection
	At               time.Time
}

func (r *DeleteRecord) sealedRecord() {}

// Timestamp implements Record.
func (r *DeleteRecord) Timestamp() time.Time { return r.At }

// Cost implements Record.
func (r *DeleteRecord) Cost() int {
	cost := 0
	for i := range r.Edits {
		cost += len(r.Edits[i].Deleted)
	}
	cost += (len(r.BeforeCursors) + len(r.AfterCursors)) * positionCost
	cost += (len(r.BeforeSelections) + len(r.AfterSelections)) * selectionCost
	return cost
}

type deleteDirection int

const (
	directionUnknown deleteDirection = iota
	directionBackward
	directionForward
)

// Merge coalesces a newer delete into this one when both cover the same
// selection indices and every pair continues in one uniform direction:
// backward (the newer span ends where the older began) or forward (the
// newer span starts where the older ended).
func (r *DeleteRecord) Merge(other Record) bool {
	o, ok := other.(*DeleteRecord)
	if !ok {
		return false
	}
	if len(o.Edits) != len(r.Edits) || len(r.Edits) == 0 {
		return false
	}

	// Validate every pair before touching anything.
	dir := directionUnknown
	for i := range r.Edits {
		a, b := r.Edits[i], o.Edits[i]
		if a.Index != b.Index {
			return false
		}

		var pairDir deleteDirection
		switch {
		case b.End() == a.Start:
			pairDir = directionBackward
		case a.End() == b.Start:
			pairDir = directionForward
		default:
			return false
		}

		if dir == directionUnknown {
			dir = pairDir
		} else if dir != pairDir {
			return false
		}
	}

	for i := range r.Edits {
		a := &r.Edits[i]
		b := o.Edits[i]
		if dir == directionBackward {
			a.Start = b.Start
			a.Deleted = b.Deleted + a.Deleted
		} else {
			a.Deleted += b.Deleted
		}
		a.Length += b.Length
		a.Caret = b.Caret
	}
	r.AfterCursors = clonePositions(o.AfterCursors)
	r.AfterSelections = cloneSelections(o.AfterSelections)
	return true
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
