// Package cursor provides the position and selection value types used by the
// editing engine. Positions address text by 0-indexed line and by column
// measured in Unicode scalar values, never bytes.
package cursor

import "fmt"

// Position is a caret location in a document.
type Position struct {
	Line   int
	Column int
}

// New creates a position at the given line and column.
func New(line, column int) Position {
	return Position{Line: line, Column: column}
}

// Zero returns the document origin.
func Zero() Position {
	return Position{}
}

// Compare returns -1 if p is before other, 0 if equal, 1 if after.
// Ordering is lexicographic: line first, then column.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	default:
		return 0
	}
}

// Before reports whether p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After reports whether p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// IsZero reports whether p is the document origin.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// String returns a human-readable representation.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
