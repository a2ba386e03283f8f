package testutil

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/semvec/docstream"
	"github.com/hupe1980/semvec/index/memory"
	"github.com/hupe1980/semvec/vector"
)

// RNG wraps a seeded *rand.Rand. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Elemental returns a random elemental vector of the given type.
func (r *RNG) Elemental(typ vector.Type, dimension, seedLength int) vector.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, err := vector.GenerateElemental(typ, dimension, seedLength, r.rand)
	if err != nil {
		panic(err)
	}
	return v
}

// ElementalVectors returns num random elemental vectors.
func (r *RNG) ElementalVectors(num int, typ vector.Type, dimension, seedLength int) []vector.Vector {
	out := make([]vector.Vector, num)
	for i := range out {
		out[i] = r.Elemental(typ, dimension, seedLength)
	}
	return out
}

// Words returns a document of n words drawn from vocab.
func (r *RNG) Words(vocab []string, n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var buf bytes.Buffer
	for i := range n {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(vocab[r.rand.Intn(len(vocab))])
	}
	return buf.String()
}

// DocID returns the identifier used for document ord in generated streams.
func DocID(ord int) string {
	return fmt.Sprintf("doc-%d", ord)
}

// DocStream encodes vectors as a doc-vector stream with the given header.
func DocStream(header string, vectors []vector.Vector, opts ...docstream.WriterOption) ([]byte, error) {
	var buf bytes.Buffer
	w, err := docstream.NewWriter(&buf, header, opts...)
	if err != nil {
		return nil, err
	}
	for i, v := range vectors {
		if err := w.Write(DocID(i), v); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CorpusIndex builds an in-memory index of numDocs random documents over
// vocab, each with wordsPerDoc words in the "contents" field.
func (r *RNG) CorpusIndex(ctx context.Context, vocab []string, numDocs, wordsPerDoc int) (*memory.Index, error) {
	idx := memory.New()
	for range numDocs {
		if _, err := idx.AddText(ctx, map[string]string{"contents": r.Words(vocab, wordsPerDoc)}); err != nil {
			return nil, err
		}
	}
	return idx, nil
}
