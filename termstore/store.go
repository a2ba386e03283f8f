package termstore

import (
	"iter"
	"slices"
	"sync"

	"github.com/hupe1980/semvec/vector"
)

// Store maps terms to vectors.
//
// The store itself is safe for concurrent use. The vectors it holds are not:
// a vector returned by Get must not be mutated concurrently.
type Store struct {
	mu      sync.RWMutex
	vectors map[string]vector.Vector
}

// New creates an empty store.
func New() *Store {
	return &Store{vectors: make(map[string]vector.Vector)}
}

// NewWithCapacity creates an empty store sized for n terms.
func NewWithCapacity(n int) *Store {
	return &Store{vectors: make(map[string]vector.Vector, n)}
}

// Put inserts or replaces the vector of term.
func (s *Store) Put(term string, v vector.Vector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors[term] = v
}

// Get returns the vector of term and whether it is present.
func (s *Store) Get(term string) (vector.Vector, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vectors[term]
	return v, ok
}

// Len returns the number of terms.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// All returns a sequence over all (term, vector) pairs in unspecified order.
// The sequence can be ranged over multiple times; each pass sees the terms
// present when it starts.
func (s *Store) All() iter.Seq2[string, vector.Vector] {
	return func(yield func(string, vector.Vector) bool) {
		s.mu.RLock()
		terms := make([]string, 0, len(s.vectors))
		vecs := make([]vector.Vector, 0, len(s.vectors))
		for t, v := range s.vectors {
			terms = append(terms, t)
			vecs = append(vecs, v)
		}
		s.mu.RUnlock()

		for i := range terms {
			if !yield(terms[i], vecs[i]) {
				return
			}
		}
	}
}

// Terms returns the terms in lexical order.
func (s *Store) Terms() []string {
	s.mu.RLock()
	terms := make([]string, 0, len(s.vectors))
	for t := range s.vectors {
		terms = append(terms, t)
	}
	s.mu.RUnlock()

	slices.Sort(terms)
	return terms
}

// NormalizeAll normalizes every vector once.
func (s *Store) NormalizeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.vectors {
		v.Normalize()
	}
}
