package vocabulary

import (
	"context"
	"iter"
	"math"
	"unicode"

	"github.com/hupe1980/semvec/index"
)

// Filter decides which index terms are tracked by the term-vector builder.
type Filter struct {
	// Fields lists the index fields a term must occur in (at least one).
	Fields []string
	// MinFrequency and MaxFrequency bound the aggregate frequency of a term
	// over Fields. Both bounds are inclusive.
	MinFrequency int
	MaxFrequency int
	// MaxNonAlphabetChars bounds the number of non-letter runes in a term.
	// A negative value disables the check.
	MaxNonAlphabetChars int
}

// Default returns a filter over the "contents" field without frequency or
// character limits.
func Default() Filter {
	return Filter{
		Fields:              []string{"contents"},
		MinFrequency:        0,
		MaxFrequency:        math.MaxInt,
		MaxNonAlphabetChars: math.MaxInt,
	}
}

// Reason says why a term was rejected.
type Reason int

const (
	Accepted Reason = iota
	RejectedField
	RejectedFrequency
	RejectedChars
)

func (r Reason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectedField:
		return "field"
	case RejectedFrequency:
		return "frequency"
	case RejectedChars:
		return "chars"
	default:
		return "unknown"
	}
}

// Keep reports whether the entry passes the filter.
func (f Filter) Keep(e index.VocabularyEntry) bool {
	return f.Check(e) == Accepted
}

// Check evaluates the entry and returns the first rule it violates.
func (f Filter) Check(e index.VocabularyEntry) Reason {
	inField := false
	for _, field := range f.Fields {
		if e.InField(field) {
			inField = true
			break
		}
	}
	if !inField {
		return RejectedField
	}

	freq := e.Frequency(f.Fields)
	if freq < f.MinFrequency || freq > f.MaxFrequency {
		return RejectedFrequency
	}

	if f.MaxNonAlphabetChars >= 0 && NonAlphabetChars(e.Term) > f.MaxNonAlphabetChars {
		return RejectedChars
	}
	return Accepted
}

// NonAlphabetChars counts the runes of term that are not letters.
func NonAlphabetChars(term string) int {
	n := 0
	for _, r := range term {
		if !unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// Stats summarizes a vocabulary scan.
type Stats struct {
	Seen              int
	Kept              int
	RejectedField     int
	RejectedFrequency int
	RejectedChars     int
}

// Scan evaluates every distinct term of vocab once and returns the kept
// terms in enumeration order. Repeated terms are ignored after their first
// occurrence.
func (f Filter) Scan(ctx context.Context, vocab iter.Seq2[index.VocabularyEntry, error]) ([]string, Stats, error) {
	var (
		kept  []string
		stats Stats
		seen  = make(map[string]struct{})
	)
	for e, err := range vocab {
		if err != nil {
			return nil, stats, err
		}
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		if _, dup := seen[e.Term]; dup {
			continue
		}
		seen[e.Term] = struct{}{}
		stats.Seen++

		switch f.Check(e) {
		case Accepted:
			stats.Kept++
			kept = append(kept, e.Term)
		case RejectedField:
			stats.RejectedField++
		case RejectedFrequency:
			stats.RejectedFrequency++
		case RejectedChars:
			stats.RejectedChars++
		}
	}
	return kept, stats, nil
}
