// Package lsp mirrors document state to a language server through
// textDocument/didOpen, didChange, and didClose notifications. Changes are
// sent as full-text replacements keyed off the document's version counter.
package lsp

import (
	"errors"

	"go.lsp.dev/protocol"

	"github.com/quilled/quill/internal/engine"
	"github.com/quilled/quill/internal/engine/cursor"
)

var (
	// ErrNotOpened is returned when Sync or Close is called before Open.
	ErrNotOpened = errors.New("document not announced to the server")

	// ErrAlreadyOpened is returned when Open is called twice without an
	// intervening Close.
	ErrAlreadyOpened = errors.New("document already announced to the server")
)

// Sender delivers one JSON-RPC notification to the language server.
type Sender func(method string, params any) error

// Notifier keeps one document synchronized with a language server.
type Notifier struct {
	uri         protocol.URI
	language    protocol.LanguageIdentifier
	send        Sender
	lastVersion uint64
	nextVersion int32
	opened      bool
}

// NewNotifier creates a notifier for the document at uri.
func NewNotifier(uri protocol.URI, language protocol.LanguageIdentifier, send Sender) *Notifier {
	return &Notifier{uri: uri, language: language, send: send}
}

// Open announces the document to the server with its full current text.
// The document must be closed before it can be announced again.
func (n *Notifier) Open(doc *engine.Document) error {
	if n.opened {
		return ErrAlreadyOpened
	}
	n.lastVersion = doc.Version()
	n.nextVersion = 1

	err := n.send(protocol.MethodTextDocumentDidOpen, protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        n.uri,
			LanguageID: n.language,
			Version:    n.nextVersion,
			Text:       doc.Text(),
		},
	})
	if err != nil {
		return err
	}
	n.opened = true
	return nil
}

// Sync sends the document's current text if it changed since the last call.
// It reports whether a notification was sent.
func (n *Notifier) Sync(doc *engine.Document) (bool, error) {
	if !n.opened {
		return false, ErrNotOpened
	}
	version := doc.Version()
	if version == n.lastVersion {
		return false, nil
	}

	n.nextVersion++
	err := n.send(protocol.MethodTextDocumentDidChange, protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: n.uri},
			Version:                n.nextVersion,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: doc.Text()}},
	})
	if err != nil {
		n.nextVersion--
		return false, err
	}
	n.lastVersion = version
	return true, nil
}

// Close tells the server the document is no longer open.
func (n *Notifier) Close() error {
	if !n.opened {
		return ErrNotOpened
	}
	err := n.send(protocol.MethodTextDocumentDidClose, protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: n.uri},
	})
	if err != nil {
		return err
	}
	n.opened = false
	return nil
}

// PositionFor converts an editor position to the wire representation.
func PositionFor(p cursor.Position) protocol.Position {
	return protocol.Position{Line: uint32(p.Line), Character: uint32(p.Column)}
}

// RangeFor converts a selection to the wire representation, start before end.
func RangeFor(sel cursor.Selection) protocol.Range {
	return protocol.Range{
		Start: PositionFor(sel.Start()),
		End:   PositionFor(sel.End()),
	}
}
