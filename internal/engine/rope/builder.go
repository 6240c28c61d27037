package rope

import "strings"

// Builder constructs a rope incrementally from streamed writes.
// It buffers input and cuts chunks at UTF-8 boundaries, so writes may
// split multi-byte sequences across calls without corrupting the result.
type Builder struct {
	chunks  []Chunk
	pending strings.Builder
}

// WriteString appends text to the builder.
func (b *Builder) WriteString(s string) {
	b.pending.WriteString(s)
	if b.pending.Len() >= 4*MaxChunkSize {
		b.flush()
	}
}

// Len returns the total bytes written so far.
func (b *Builder) Len() int {
	total := b.pending.Len()
	for _, c := range b.chunks {
		total += c.Len()
	}
	return total
}

// flush converts the buffered prefix into chunks, retaining a tail so the
// final chunk can still merge with future writes and so a trailing partial
// UTF-8 sequence stays buffered until completed.
func (b *Builder) flush() {
	s := b.pending.String()
	cut := len(s) - MaxChunkSize
	for cut > 0 && !isUTF8Start(s[cut]) {
		cut--
	}
	if cut <= 0 {
		return
	}

	b.chunks = append(b.chunks, splitIntoChunks(s[:cut])...)
	tail := s[cut:]
	b.pending.Reset()
	b.pending.WriteString(tail)
}

// Build finalizes the builder and returns the rope.
// The builder must not be reused afterward.
func (b *Builder) Build() Rope {
	if b.pending.Len() > 0 {
		b.chunks = append(b.chunks, splitIntoChunks(b.pending.String())...)
		b.pending.Reset()
	}
	return buildFromChunks(b.chunks)
}
