package index

import (
	"context"
	"errors"
	"iter"
	"strings"
)

var (
	// ErrClosed is returned when an index is used after Close.
	ErrClosed = errors.New("index: closed")

	// ErrDocumentOutOfRange is returned for a document ordinal outside [0, NumDocs).
	ErrDocumentOutOfRange = errors.New("index: document out of range")
)

// VocabularyEntry is one distinct term of an index together with its
// aggregate frequency in every field it occurs in.
type VocabularyEntry struct {
	Term        string
	Frequencies map[string]int

	// DocFrequencies holds the number of documents containing the term per
	// field. Indexes that do not track documents leave it nil.
	DocFrequencies map[string]int
}

// InField reports whether the term occurs in field. Document frequencies
// decide when present, otherwise the aggregate frequencies do.
func (e VocabularyEntry) InField(field string) bool {
	if e.DocFrequencies != nil {
		return e.DocFrequencies[field] > 0
	}
	_, ok := e.Frequencies[field]
	return ok
}

// Frequency returns the summed frequency of the term over the given fields.
func (e VocabularyEntry) Frequency(fields []string) int {
	total := 0
	for _, f := range fields {
		total += e.Frequencies[f]
	}
	return total
}

// Reader is the read side of a term-frequency index.
//
// Documents are addressed by ordinal in [0, NumDocs()). Vocabulary yields
// every distinct term exactly once.
type Reader interface {
	// NumDocs returns the number of documents in the index.
	NumDocs() int

	// Vocabulary enumerates the distinct terms of the index.
	Vocabulary(ctx context.Context) iter.Seq2[VocabularyEntry, error]

	// TermFrequencies returns term -> frequency for one document and field.
	// The map is empty when the document has no data for the field.
	TermFrequencies(ctx context.Context, doc int, field string) (map[string]int, error)

	// Close releases the index.
	Close() error
}

// Document is a document to be indexed: field name -> tokens.
type Document map[string][]string

// Writer is the write side of a term-frequency index.
type Writer interface {
	// Add appends a document and returns its ordinal.
	Add(ctx context.Context, doc Document) (int, error)
}

// Index is a readable and writable term-frequency index.
type Index interface {
	Reader
	Writer
}

// Tokenize lowercases text and splits it on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// Count returns term -> occurrence count for a token list.
func Count(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}
