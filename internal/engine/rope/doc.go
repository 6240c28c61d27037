// Package rope implements an immutable chunked rope for text storage.
//
// Text is held in a B+ tree whose leaves store small string chunks and
// whose internal nodes cache aggregated metrics (bytes, chars, newlines)
// per child. All public offsets are char offsets: counts of Unicode scalar
// values, not bytes. Edits return new ropes that share unchanged subtrees
// with the original, making snapshots cheap and reads safe to run
// concurrently with edits against older values.
package rope
