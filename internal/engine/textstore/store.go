// Package textstore provides a versioned text store shared between editor
// collaborators. A Store wraps an immutable rope behind a sync.RWMutex and
// carries a monotonic version counter that increments by exactly one for
// every call that actually changes content. Watchers (an LSP notifier, a
// renderer) compare versions to decide whether to re-read.
package textstore

import (
	"io"
	"sync"

	"github.com/quilled/quill/internal/engine/rope"
)

// Edit is one sub-edit of a batch: remove RemoveLen chars at Start, then
// insert Insert at Start. Either half may be empty.
type Edit struct {
	Start     int
	RemoveLen int
	Insert    string
}

// Store is a thread-safe text store addressed by char offsets.
type Store struct {
	mu      sync.RWMutex
	text    rope.Rope
	version uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{text: rope.New()}
}

// FromString creates a store with initial content.
// The initial content does not count as a mutation; the version starts at 0.
func FromString(s string) *Store {
	return &Store{text: rope.FromString(s)}
}

// FromReader creates a store by streaming content from r.
func FromReader(r io.Reader) (*Store, error) {
	text, err := rope.FromReader(r)
	if err != nil {
		return nil, err
	}
	return &Store{text: text}, nil
}

// Version returns the current version counter.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Text returns the full content.
func (s *Store) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text.String()
}

// Len returns the content length in chars.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text.Len()
}

// LineCount returns the number of lines. Empty content has one line.
func (s *Store) LineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text.LineCount()
}

// Line returns the content of the given 0-indexed line without its
// trailing newline. Returns false if the line does not exist.
func (s *Store) Line(line int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if line < 0 || line >= s.text.LineCount() {
		return "", false
	}
	return s.text.Line(line), true
}

// LineLen returns the char length of the given line, excluding the
// trailing newline. Returns false if the line does not exist.
func (s *Store) LineLen(line int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if line < 0 || line >= s.text.LineCount() {
		return 0, false
	}
	return s.text.LineLen(line), true
}

// TextRange returns the content in the char range [start, end), clamped
// to the store bounds.
func (s *Store) TextRange(start, end int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text.Slice(start, end)
}

// LineToChar returns the char offset of the start of the given line.
func (s *Store) LineToChar(line int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text.LineToChar(line)
}

// CharToLine returns the line the given char offset falls on.
func (s *Store) CharToLine(offset int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text.CharToLine(offset)
}

// Insert inserts text at the given char offset. Inserting empty text or
// inserting past the end is a complete no-op and does not bump the version.
func (s *Store) Insert(offset int, text string) {
	if text == "" || offset < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset > s.text.Len() {
		return
	}
	s.text = s.text.Insert(offset, text)
	s.version++
}

// Remove deletes length chars starting at offset. The end of the range is
// clamped to the content; a start at or past the end, or a non-positive
// length, is a complete no-op and does not bump the version.
func (s *Store) Remove(offset, length int) {
	if length <= 0 || offset < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.text.Len()
	if offset >= n {
		return
	}
	end := offset + length
	if end > n {
		end = n
	}
	s.text = s.text.Delete(offset, end)
	s.version++
}

// Replace removes length chars at offset and inserts text in their place,
// under a single lock acquisition and a single version bump. The offset
// must be in range; the removal end is clamped.
func (s *Store) Replace(offset, length int, text string) {
	if offset < 0 || length < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.text.Len()
	if offset >= n {
		return
	}
	end := offset + length
	if end > n {
		end = n
	}
	if end == offset && text == "" {
		return
	}
	s.text = s.text.Delete(offset, end).Insert(offset, text)
	s.version++
}

// Apply runs a prepared batch of edits under a single lock acquisition and
// bumps the version once if any sub-edit changed content. Callers order
// edits highest Start first so earlier sub-edits do not shift the offsets
// of later ones. An empty batch, or a batch where every sub-edit is out of
// range or empty, does not bump the version.
func (s *Store) Apply(edits []Edit) {
	if len(edits) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	mutated := false
	for _, e := range edits {
		if e.Start < 0 {
			continue
		}
		n := s.text.Len()
		if e.RemoveLen > 0 && e.Start < n {
			end := e.Start + e.RemoveLen
			if end > n {
				end = n
			}
			if end > e.Start {
				s.text = s.text.Delete(e.Start, end)
				mutated = true
			}
		}
		if e.Insert != "" && e.Start <= s.text.Len() {
			s.text = s.text.Insert(e.Start, e.Insert)
			mutated = true
		}
	}

	if mutated {
		s.version++
	}
}
