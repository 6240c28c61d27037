package cursor

import "fmt"

// Selection is a directional text selection. Anchor is the fixed end and
// Active is the moving end (where the caret sits). Anchor may come after
// Active when the user selected backwards.
type Selection struct {
	Anchor Position
	Active Position
}

// Caret creates a collapsed selection at the given position.
func Caret(p Position) Selection {
	return Selection{Anchor: p, Active: p}
}

// NewSelection creates a selection from anchor to active.
func NewSelection(anchor, active Position) Selection {
	return Selection{Anchor: anchor, Active: active}
}

// IsCollapsed reports whether the selection is a bare caret.
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Active
}

// Start returns the lesser of Anchor and Active.
func (s Selection) Start() Position {
	if s.Anchor.After(s.Active) {
		return s.Active
	}
	return s.Anchor
}

// End returns the greater of Anchor and Active.
func (s Selection) End() Position {
	if s.Anchor.After(s.Active) {
		return s.Anchor
	}
	return s.Active
}

// Collapse returns a caret at the active end.
func (s Selection) Collapse() Selection {
	return Caret(s.Active)
}

// Contains reports whether p lies within [Start, End).
func (s Selection) Contains(p Position) bool {
	return !p.Before(s.Start()) && p.Before(s.End())
}

// String returns a human-readable representation.
func (s Selection) String() string {
	if s.IsCollapsed() {
		return s.Active.String()
	}
	return fmt.Sprintf("%s-%s", s.Anchor.String(), s.Active.String())
}
