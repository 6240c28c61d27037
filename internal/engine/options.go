package engine

import (
	"time"

	"github.com/quilled/quill/internal/engine/history"
)

// DefaultTabWidth is used by InsertTab when no width is configured.
const DefaultTabWidth = 4

// Option configures a Document during construction.
type Option func(*settings)

type settings struct {
	content  string
	budget   int
	window   time.Duration
	tabWidth int
	clock    func() time.Time
}

func defaultSettings() settings {
	return settings{
		budget:   history.DefaultBudget,
		window:   history.CoalesceWindow,
		tabWidth: DefaultTabWidth,
		clock:    time.Now,
	}
}

// WithContent sets the initial text. Initial content is not an edit: it
// does not mark the document dirty and is not undoable.
func WithContent(text string) Option {
	return func(s *settings) { s.content = text }
}

// WithUndoBudget caps the estimated byte cost of retained undo records.
func WithUndoBudget(bytes int) Option {
	return func(s *settings) {
		if bytes > 0 {
			s.budget = bytes
		}
	}
}

// WithCoalesceWindow sets the maximum gap between edits that coalesce into
// a single undo step.
func WithCoalesceWindow(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithTabWidth sets the number of spaces InsertTab falls back to when
// called with a non-positive width.
func WithTabWidth(width int) Option {
	return func(s *settings) {
		if width > 0 {
			s.tabWidth = width
		}
	}
}

// WithClock overrides the time source used to timestamp history records.
// Intended for tests that exercise the coalescing window.
func WithClock(clock func() time.Time) Option {
	return func(s *settings) {
		if clock != nil {
			s.clock = clock
		}
	}
}
