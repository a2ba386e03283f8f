package memory

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/semvec/index"
)

// Index is an in-memory term-frequency index.
//
// It keeps a forward index (document -> field -> term frequencies) to answer
// TermFrequencies and an inverted index (term -> field -> document bitmap)
// plus aggregate frequencies to answer Vocabulary.
type Index struct {
	mu       sync.RWMutex
	docs     []map[string]map[string]int
	inverted map[string]map[string]*roaring.Bitmap
	freqs    map[string]map[string]int
	closed   bool
}

// Ensure Index implements index.Index
var _ index.Index = (*Index)(nil)

// New creates an empty Index.
func New() *Index {
	return &Index{
		inverted: make(map[string]map[string]*roaring.Bitmap),
		freqs:    make(map[string]map[string]int),
	}
}

// Add appends a tokenized document and returns its ordinal.
func (idx *Index) Add(_ context.Context, doc index.Document) (int, error) {
	fields := make(map[string]map[string]int, len(doc))
	for field, tokens := range doc {
		if len(tokens) == 0 {
			continue
		}
		fields[field] = index.Count(tokens)
	}
	return idx.addCounts(fields)
}

// AddText tokenizes every field with index.Tokenize and appends the document.
func (idx *Index) AddText(ctx context.Context, fields map[string]string) (int, error) {
	doc := make(index.Document, len(fields))
	for field, text := range fields {
		doc[field] = index.Tokenize(text)
	}
	return idx.Add(ctx, doc)
}

// AddFrequencies appends a document given as field -> term -> frequency.
func (idx *Index) AddFrequencies(_ context.Context, fields map[string]map[string]int) (int, error) {
	counts := make(map[string]map[string]int, len(fields))
	for field, tf := range fields {
		if len(tf) == 0 {
			continue
		}
		counts[field] = maps.Clone(tf)
	}
	return idx.addCounts(counts)
}

func (idx *Index) addCounts(fields map[string]map[string]int) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return 0, index.ErrClosed
	}

	ord := len(idx.docs)
	idx.docs = append(idx.docs, fields)

	for field, tf := range fields {
		for term, count := range tf {
			byField, ok := idx.inverted[term]
			if !ok {
				byField = make(map[string]*roaring.Bitmap)
				idx.inverted[term] = byField
				idx.freqs[term] = make(map[string]int)
			}
			bm, ok := byField[field]
			if !ok {
				bm = roaring.New()
				byField[field] = bm
			}
			bm.Add(uint32(ord))
			idx.freqs[term][field] += count
		}
	}

	return ord, nil
}

func (idx *Index) NumDocs() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// Vocabulary yields the distinct terms in lexical order, with document
// frequencies taken from the per-field bitmaps. The vocabulary is
// snapshotted when iteration starts.
func (idx *Index) Vocabulary(ctx context.Context) iter.Seq2[index.VocabularyEntry, error] {
	return func(yield func(index.VocabularyEntry, error) bool) {
		idx.mu.RLock()
		if idx.closed {
			idx.mu.RUnlock()
			yield(index.VocabularyEntry{}, index.ErrClosed)
			return
		}
		entries := make([]index.VocabularyEntry, 0, len(idx.inverted))
		for term, byField := range idx.inverted {
			e := index.VocabularyEntry{
				Term:           term,
				Frequencies:    maps.Clone(idx.freqs[term]),
				DocFrequencies: make(map[string]int, len(byField)),
			}
			for field, bm := range byField {
				e.DocFrequencies[field] = int(bm.GetCardinality())
			}
			entries = append(entries, e)
		}
		idx.mu.RUnlock()

		slices.SortFunc(entries, func(a, b index.VocabularyEntry) int {
			return strings.Compare(a.Term, b.Term)
		})

		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				yield(index.VocabularyEntry{}, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (idx *Index) TermFrequencies(_ context.Context, doc int, field string) (map[string]int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, index.ErrClosed
	}
	if doc < 0 || doc >= len(idx.docs) {
		return nil, fmt.Errorf("%w: %d of %d", index.ErrDocumentOutOfRange, doc, len(idx.docs))
	}
	tf, ok := idx.docs[doc][field]
	if !ok {
		return map[string]int{}, nil
	}
	return maps.Clone(tf), nil
}

// DocFrequency returns the number of documents containing term in field.
func (idx *Index) DocFrequency(term, field string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	bm, ok := idx.inverted[term][field]
	if !ok {
		return 0
	}
	return int(bm.GetCardinality())
}

// Documents returns the ordinals of the documents containing term in any of
// the given fields, in ascending order.
func (idx *Index) Documents(term string, fields ...string) []int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	union := roaring.New()
	for _, f := range fields {
		if bm, ok := idx.inverted[term][f]; ok {
			union.Or(bm)
		}
	}
	out := make([]int, 0, union.GetCardinality())
	it := union.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	return nil
}
