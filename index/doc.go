// Package index defines the term-frequency index consumed by the term-vector
// builder: the document count, the vocabulary with per-field frequencies and
// per-document term frequencies.
//
// Two implementations are provided:
//
//   - memory: an in-memory inverted index backed by roaring bitmaps
//   - sqlite: a persistent index stored in a SQLite database
//
// Any other index can be plugged in by implementing Reader.
package index
