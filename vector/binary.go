package vector

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/bits-and-blooms/bitset"
)

// Binary is a bit-packed vector. Superposition does not touch the bits
// directly: every call adds signed, fixed-point votes to an int64 record and
// the bits are only recomputed by Normalize (majority vote). Overlap is
// 1 - 2*hamming/dimension, so identical vectors score 1 and complementary
// vectors score -1.
type Binary struct {
	dimension     int
	decimalPlaces int
	scale         float64
	bits          *bitset.BitSet
	votes         []int64 // pending votes, nil when the bits are up to date
	zero          bool
}

// NewBinary creates a zero binary vector whose vote accumulator keeps
// decimalPlaces decimal places of the superposition weights.
func NewBinary(dimension, decimalPlaces int) *Binary {
	if decimalPlaces < 0 {
		decimalPlaces = 0
	}
	return &Binary{
		dimension:     dimension,
		decimalPlaces: decimalPlaces,
		scale:         math.Pow10(decimalPlaces),
		bits:          bitset.New(uint(dimension)),
		zero:          true,
	}
}

// NewBinaryFromWords creates a binary vector from packed little-endian bit words.
func NewBinaryFromWords(dimension, decimalPlaces int, words []uint64) *Binary {
	v := NewBinary(dimension, decimalPlaces)
	v.setWords(words)
	v.zero = false
	return v
}

// Words returns a copy of the packed bits, tallying pending votes first.
func (v *Binary) Words() []uint64 {
	w := v.current().Words()
	out := make([]uint64, numWords(v.dimension))
	copy(out, w)
	return out
}

// Bit reports whether bit i is set in the tallied vector.
func (v *Binary) Bit(i int) bool { return v.current().Test(uint(i)) }

func (v *Binary) Type() Type { return TypeBinary }

func (v *Binary) Dimension() int { return v.dimension }

func (v *Binary) IsZero() bool { return v.zero }

func (v *Binary) Copy() Vector {
	c := &Binary{
		dimension:     v.dimension,
		decimalPlaces: v.decimalPlaces,
		scale:         v.scale,
		bits:          v.bits.Clone(),
		zero:          v.zero,
	}
	if v.votes != nil {
		c.votes = append([]int64(nil), v.votes...)
	}
	return c
}

func (v *Binary) Superpose(other Vector, weight float64, perm Permutation) error {
	if err := checkCompatible(v, other); err != nil {
		return err
	}
	if err := perm.validate(v.dimension); err != nil {
		return err
	}
	incr := int64(math.Round(weight * v.scale))
	if incr == 0 {
		return nil
	}
	src := other.(*Binary).current()
	v.startVoting()
	for i := 0; i < v.dimension; i++ {
		j := perm.target(i)
		if src.Test(uint(i)) {
			v.votes[j] += incr
		} else {
			v.votes[j] -= incr
		}
	}
	v.zero = false
	return nil
}

// Normalize tallies the pending votes into the bit set. Positive totals set
// the bit, negative totals clear it and ties keep the previous value.
func (v *Binary) Normalize() {
	if v.votes == nil {
		return
	}
	v.bits = v.current()
	v.votes = nil
}

func (v *Binary) MeasureOverlap(other Vector) (float64, error) {
	if err := checkCompatible(v, other); err != nil {
		return 0, err
	}
	o := other.(*Binary)
	if v.zero || o.zero {
		return 0, nil
	}
	hamming := v.current().SymmetricDifferenceCardinality(o.current())
	return 1 - 2*float64(hamming)/float64(v.dimension), nil
}

// startVoting switches the vector into accumulation mode. Existing bits
// count as a single unit vote so that a normalized vector keeps its identity.
func (v *Binary) startVoting() {
	if v.votes != nil {
		return
	}
	v.votes = make([]int64, v.dimension)
	if v.zero {
		return
	}
	unit := int64(v.scale)
	for i := range v.votes {
		if v.bits.Test(uint(i)) {
			v.votes[i] = unit
		} else {
			v.votes[i] = -unit
		}
	}
}

// current returns the bits as they would look after Normalize, without
// mutating the vector.
func (v *Binary) current() *bitset.BitSet {
	if v.votes == nil {
		return v.bits
	}
	b := v.bits.Clone()
	for i, vote := range v.votes {
		switch {
		case vote > 0:
			b.Set(uint(i))
		case vote < 0:
			b.Clear(uint(i))
		}
	}
	return b
}

func (v *Binary) setWords(words []uint64) {
	w := make([]uint64, numWords(v.dimension))
	copy(w, words)
	if rem := v.dimension % 64; rem != 0 {
		w[len(w)-1] &= (uint64(1) << uint(rem)) - 1
	}
	v.bits = bitset.FromWithLength(uint(v.dimension), w)
	v.votes = nil
}

// WriteTo writes the tallied bits as big-endian uint64 words.
func (v *Binary) WriteTo(w io.Writer) (int64, error) {
	words := v.Words()
	buf := make([]byte, 8*len(words))
	for i, word := range words {
		binary.BigEndian.PutUint64(buf[i*8:], word)
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom reads ceil(Dimension()/64) big-endian uint64 words and discards
// any pending votes.
func (v *Binary) ReadFrom(r io.Reader) (int64, error) {
	words := make([]uint64, numWords(v.dimension))
	buf := make([]byte, 8*len(words))
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return int64(n), err
	}
	for i := range words {
		words[i] = binary.BigEndian.Uint64(buf[i*8:])
	}
	v.setWords(words)
	v.zero = false
	return int64(n), nil
}

func numWords(dimension int) int {
	return (dimension + 63) / 64
}
