package history

import "time"

// Stack holds the undo and redo records for one document, coalescing
// rapid-fire edits and evicting the oldest undo records once the retained
// cost exceeds the byte budget.
//
// Stack is not safe for concurrent use; the owning document serializes
// access.
type Stack struct {
	undo   []Record
	redo   []Record
	cost   int
	budget int
	window time.Duration
}

// NewStack creates a stack. Non-positive budget or window fall back to
// DefaultBudget and CoalesceWindow.
func NewStack(budget int, window time.Duration) *Stack {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if window <= 0 {
		window = CoalesceWindow
	}
	return &Stack{budget: budget, window: window}
}

// Commit adds a record for a fresh edit. If the top undo record is within
// the coalescing window and accepts the merge, the two become one step;
// otherwise the record is pushed. The redo stack is always cleared, then
// the oldest records are evicted while the cost exceeds the budget.
// Reports whether eviction left the undo stack empty.
func (s *Stack) Commit(rec Record) bool {
	merged := false
	if n := len(s.undo); n > 0 {
		top := s.undo[n-1]
		if gap := rec.Timestamp().Sub(top.Timestamp()); gap >= 0 && gap <= s.window {
			prev := top.Cost()
			if top.Merge(rec) {
				s.cost = saturateSub(s.cost, prev) + top.Cost()
				merged = true
			}
		}
	}
	if !merged {
		s.cost += rec.Cost()
		s.undo = append(s.undo, rec)
	}

	s.redo = s.redo[:0]
	return s.trim()
}

// PushUndo re-adds a record through the budget path. Used when redoing.
// Reports whether eviction left the undo stack empty.
func (s *Stack) PushUndo(rec Record) bool {
	s.cost += rec.Cost()
	s.undo = append(s.undo, rec)
	return s.trim()
}

// PopUndo removes and returns the most recent undo record.
func (s *Stack) PopUndo() (Record, bool) {
	n := len(s.undo)
	if n == 0 {
		return nil, false
	}
	rec := s.undo[n-1]
	s.undo = s.undo[:n-1]
	s.cost = saturateSub(s.cost, rec.Cost())
	return rec, true
}

// PushRedo stores a record undone by the caller. Redo records do not count
// against the budget.
func (s *Stack) PushRedo(rec Record) {
	s.redo = append(s.redo, rec)
}

// PopRedo removes and returns the most recent redo record.
func (s *Stack) PopRedo() (Record, bool) {
	n := len(s.redo)
	if n == 0 {
		return nil, false
	}
	rec := s.redo[n-1]
	s.redo = s.redo[:n-1]
	return rec, true
}

// CanUndo reports whether an undo record is available.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether a redo record is available.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// UndoLen returns the number of retained undo records.
func (s *Stack) UndoLen() int { return len(s.undo) }

// RedoLen returns the number of retained redo records.
func (s *Stack) RedoLen() int { return len(s.redo) }

// Cost returns the current estimated byte cost of the undo stack.
func (s *Stack) Cost() int { return s.cost }

// Clear drops all records.
func (s *Stack) Clear() {
	s.undo = nil
	s.redo = nil
	s.cost = 0
}

// trim evicts the oldest undo records while over budget.
// Reports whether the undo stack ended up empty.
func (s *Stack) trim() bool {
	for s.cost > s.budget && len(s.undo) > 0 {
		removed := s.undo[0]
		s.undo = s.undo[1:]
		s.cost = saturateSub(s.cost, removed.Cost())
	}
	return len(s.undo) == 0
}

func saturateSub(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}
