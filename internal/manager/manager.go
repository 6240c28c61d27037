// Package manager tracks the set of open documents, keyed by path, and
// serializes access to each one. A document is mutated by exactly one
// caller at a time; readers of the underlying store may proceed
// concurrently through the store's own read lock.
package manager

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/quilled/quill/internal/engine"
	"github.com/quilled/quill/internal/logging"
)

var (
	// ErrNotOpen is returned when the requested path has no open document.
	ErrNotOpen = errors.New("document not open")

	// ErrNoCurrent is returned when no document is current.
	ErrNoCurrent = errors.New("no current document")
)

// entry pairs a document with the mutex serializing its mutators.
type entry struct {
	mu  sync.Mutex
	doc *engine.Document
}

// Manager tracks open documents.
type Manager struct {
	mu      sync.RWMutex
	log     *logging.Logger
	opts    []engine.Option
	docs    map[string]*entry
	current string
}

// New creates a manager. The given options are applied to every document
// it creates.
func New(log *logging.Logger, opts ...engine.Option) *Manager {
	if log == nil {
		log = logging.Null
	}
	return &Manager{
		log:  log.WithComponent("manager"),
		opts: opts,
		docs: make(map[string]*entry),
	}
}

// Open reads the file at path into a new document and makes it current.
// Reopening an already open path is a no-op beyond making it current.
func (m *Manager) Open(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[path]; ok {
		m.current = path
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := engine.NewFromReader(f, m.opts...)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	m.docs[path] = &entry{doc: doc}
	m.current = path
	m.log.Info("opened %s (%d lines)", path, doc.LineCount())
	return nil
}

// NewUntitled creates an empty document under a unique untitled name,
// makes it current, and returns the name.
func (m *Manager) NewUntitled() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := "untitled-" + uuid.NewString()
	m.docs[name] = &entry{doc: engine.New(m.opts...)}
	m.current = name
	m.log.Debug("created %s", name)
	return name
}

// With runs fn with the document at path, holding that document's lock so
// fn is the only mutator for its duration.
func (m *Manager) With(path string, fn func(*engine.Document) error) error {
	m.mu.RLock()
	e, ok := m.docs[path]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotOpen, path)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.doc)
}

// WithCurrent runs fn with the current document under its lock.
func (m *Manager) WithCurrent(fn func(*engine.Document) error) error {
	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()
	if current == "" {
		return ErrNoCurrent
	}
	return m.With(current, fn)
}

// Save writes the document at path back to that path and marks it clean.
func (m *Manager) Save(path string) error {
	return m.With(path, func(doc *engine.Document) error {
		if err := os.WriteFile(path, []byte(doc.Text()), 0o644); err != nil {
			return fmt.Errorf("saving %s: %w", path, err)
		}
		doc.MarkClean()
		m.log.Info("saved %s", path)
		return nil
	})
}

// SaveCurrent saves the current document.
func (m *Manager) SaveCurrent() error {
	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()
	if current == "" {
		return ErrNoCurrent
	}
	return m.Save(current)
}

// Close discards the document at path. Unsaved changes are lost.
func (m *Manager) Close(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[path]; !ok {
		return fmt.Errorf("%w: %s", ErrNotOpen, path)
	}
	delete(m.docs, path)
	if m.current == path {
		m.current = ""
	}
	m.log.Debug("closed %s", path)
	return nil
}

// SetCurrent makes an already open path the current document.
func (m *Manager) SetCurrent(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[path]; !ok {
		return fmt.Errorf("%w: %s", ErrNotOpen, path)
	}
	m.current = path
	return nil
}

// Current returns the current document's path, if any.
func (m *Manager) Current() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.current != ""
}

// OpenPaths returns the paths of all open documents.
func (m *Manager) OpenPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.docs))
	for path := range m.docs {
		paths = append(paths, path)
	}
	return paths
}

// UnsavedPaths returns the paths of open documents with unsaved changes.
func (m *Manager) UnsavedPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var paths []string
	for path, e := range m.docs {
		e.mu.Lock()
		dirty := e.doc.IsDirty()
		e.mu.Unlock()
		if dirty {
			paths = append(paths, path)
		}
	}
	return paths
}

// HasUnsavedChanges reports whether any open document is dirty.
func (m *Manager) HasUnsavedChanges() bool {
	return len(m.UnsavedPaths()) > 0
}
