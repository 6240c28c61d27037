package engine

import (
	"io"
	"time"

	"github.com/quilled/quill/internal/engine/cursor"
	"github.com/quilled/quill/internal/engine/history"
	"github.com/quilled/quill/internal/engine/textstore"
)

// Document is an open text buffer: the shared text store plus the editing
// state layered on top of it. The cursors and selections slices are
// index-aligned; entry i of each describes the same logical cursor.
type Document struct {
	store      *textstore.Store
	cursors    []cursor.Position
	selections []cursor.Selection
	dirty      bool
	hist       *history.Stack
	tabWidth   int
	now        func() time.Time
}

// New creates a document.
func New(opts ...Option) *Document {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	var store *textstore.Store
	if s.content == "" {
		store = textstore.New()
	} else {
		store = textstore.FromString(s.content)
	}

	return newDocument(store, s)
}

// NewFromReader creates a document by streaming initial content from r.
// WithContent is ignored when this constructor is used.
func NewFromReader(r io.Reader, opts ...Option) (*Document, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	store, err := textstore.FromReader(r)
	if err != nil {
		return nil, err
	}
	return newDocument(store, s), nil
}

func newDocument(store *textstore.Store, s settings) *Document {
	origin := cursor.Zero()
	return &Document{
		store:      store,
		cursors:    []cursor.Position{origin},
		selections: []cursor.Selection{cursor.Caret(origin)},
		hist:       history.NewStack(s.budget, s.window),
		tabWidth:   s.tabWidth,
		now:        s.clock,
	}
}

// Text returns the full document content.
func (d *Document) Text() string {
	return d.store.Text()
}

// Len returns the content length in chars.
func (d *Document) Len() int {
	return d.store.Len()
}

// Version returns the store's monotonic version counter.
func (d *Document) Version() uint64 {
	return d.store.Version()
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return d.store.LineCount()
}

// Line returns the content of a line without its trailing newline.
func (d *Document) Line(line int) (string, bool) {
	return d.store.Line(line)
}

// LineLen returns the char length of a line, excluding the newline.
func (d *Document) LineLen(line int) (int, bool) {
	return d.store.LineLen(line)
}

// Cursors returns a copy of the cursor list.
func (d *Document) Cursors() []cursor.Position {
	out := make([]cursor.Position, len(d.cursors))
	copy(out, d.cursors)
	return out
}

// Selections returns a copy of the selection list.
func (d *Document) Selections() []cursor.Selection {
	out := make([]cursor.Selection, len(d.selections))
	copy(out, d.selections)
	return out
}

// SetCursor replaces all cursors with a single caret.
func (d *Document) SetCursor(p cursor.Position) {
	d.cursors = []cursor.Position{p}
	d.selections = []cursor.Selection{cursor.Caret(p)}
}

// AddCursor appends an additional caret.
func (d *Document) AddCursor(p cursor.Position) {
	d.cursors = append(d.cursors, p)
	d.selections = append(d.selections, cursor.Caret(p))
}

// SetSelection replaces all selections with a single one. The cursor moves
// to the selection's active end.
func (d *Document) SetSelection(sel cursor.Selection) {
	d.selections = []cursor.Selection{sel}
	d.cursors = []cursor.Position{sel.Active}
}

// AddSelection appends an additional selection with its own cursor.
func (d *Document) AddSelection(sel cursor.Selection) {
	d.selections = append(d.selections, sel)
	d.cursors = append(d.cursors, sel.Active)
}

// IsDirty reports whether the document has unsaved changes.
func (d *Document) IsDirty() bool {
	return d.dirty
}

// MarkClean clears the dirty flag, typically after a save.
func (d *Document) MarkClean() {
	d.dirty = false
}

// CanUndo reports whether an undo step is available.
func (d *Document) CanUndo() bool {
	return d.hist.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (d *Document) CanRedo() bool {
	return d.hist.CanRedo()
}

// CharIndex converts a position to an absolute char offset.
func (d *Document) CharIndex(p cursor.Position) int {
	return d.store.LineToChar(p.Line) + p.Column
}

// TextInRange returns the text covered by a selection.
func (d *Document) TextInRange(sel cursor.Selection) string {
	start := d.CharIndex(sel.Start())
	end := d.CharIndex(sel.End())
	if end <= start {
		return ""
	}
	return d.store.TextRange(start, end)
}

// commit pushes a history record. When budget eviction empties the undo
// stack there is nothing left to unwind, so the dirty flag is dropped too.
func (d *Document) commit(rec history.Record) {
	if d.hist.Commit(rec) {
		d.dirty = false
	}
}
