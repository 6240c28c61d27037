// Package engine implements the text-editing core: a Document combining a
// versioned text store, multi-cursor state, a dirty flag, and a budgeted
// undo history with time-window coalescing.
//
// A Document is not internally locked. Exactly one collaborator may mutate
// it at a time; concurrent readers of the underlying store are safe because
// the store carries its own read lock. The manager package provides the
// per-document serialization used by the rest of the editor.
package engine
