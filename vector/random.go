package vector

import (
	"fmt"
	"math"
	"math/rand"
)

// SparseSeed is a ternary vector stored as signed 1-based positions: +p marks
// a +1 at coordinate p-1 and -p marks a -1 at coordinate p-1.
type SparseSeed []int32

// Positive returns the number of +1 entries.
func (s SparseSeed) Positive() int {
	n := 0
	for _, p := range s {
		if p > 0 {
			n++
		}
	}
	return n
}

// Negative returns the number of -1 entries.
func (s SparseSeed) Negative() int { return len(s) - s.Positive() }

// Real materializes the seed as a dense real vector.
func (s SparseSeed) Real(dimension int) *Real {
	v := NewReal(dimension)
	for _, p := range s {
		if p > 0 {
			v.coords[p-1] = 1
		} else {
			v.coords[-p-1] = -1
		}
	}
	return v
}

// GenerateRandomVector draws a sparse ternary seed with seedLength/2 positive
// and seedLength-seedLength/2 negative entries at distinct positions in
// [1, dimension]. Positions are drawn by rejection sampling from rnd.
func GenerateRandomVector(seedLength, dimension int, rnd *rand.Rand) (SparseSeed, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dimension)
	}
	if seedLength < 0 || seedLength > dimension {
		return nil, fmt.Errorf("%w: %d for dimension %d", ErrInvalidSeedLength, seedLength, dimension)
	}
	taken := make([]bool, dimension)
	seed := make(SparseSeed, 0, seedLength)
	draw := func() int32 {
		for {
			p := rnd.Intn(dimension)
			if !taken[p] {
				taken[p] = true
				return int32(p + 1)
			}
		}
	}
	for len(seed) < seedLength/2 {
		seed = append(seed, draw())
	}
	for len(seed) < seedLength {
		seed = append(seed, -draw())
	}
	return seed, nil
}

// GenerateElemental creates a random elemental vector of the given type.
//
// Real vectors are materialized from a sparse seed of seedLength entries.
// Binary vectors get dimension/2 randomly chosen set bits. Complex vectors
// carry unit-magnitude coordinates with random phase at seedLength positions.
func GenerateElemental(typ Type, dimension, seedLength int, rnd *rand.Rand, optFns ...Option) (Vector, error) {
	switch typ {
	case TypeReal:
		seed, err := GenerateRandomVector(seedLength, dimension, rnd)
		if err != nil {
			return nil, err
		}
		return seed.Real(dimension), nil
	case TypeBinary:
		if dimension <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dimension)
		}
		opts := options{decimalPlaces: DefaultDecimalPlaces}
		for _, fn := range optFns {
			fn(&opts)
		}
		v := NewBinary(dimension, opts.decimalPlaces)
		for _, i := range rnd.Perm(dimension)[:dimension/2] {
			v.bits.Set(uint(i))
		}
		v.zero = false
		return v, nil
	case TypeComplex:
		seed, err := GenerateRandomVector(seedLength, dimension, rnd)
		if err != nil {
			return nil, err
		}
		v := NewComplex(dimension)
		for _, p := range seed {
			if p < 0 {
				p = -p
			}
			phase := rnd.Float64() * 2 * math.Pi
			v.coords[p-1] = complex(float32(math.Cos(phase)), float32(math.Sin(phase)))
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
}

// RandomPermutation returns a uniformly random permutation of [0, dimension).
func RandomPermutation(dimension int, rnd *rand.Rand) Permutation {
	return Permutation(rnd.Perm(dimension))
}

// InversePermutation returns q such that q[p[i]] == i.
func InversePermutation(p Permutation) Permutation {
	if p == nil {
		return nil
	}
	inv := make(Permutation, len(p))
	for i, j := range p {
		inv[j] = i
	}
	return inv
}

// ShiftPermutation returns the cyclic rotation moving coordinate i to
// (i+shift) mod dimension. Negative shifts rotate the other way.
func ShiftPermutation(dimension, shift int) Permutation {
	p := make(Permutation, dimension)
	for i := range p {
		p[i] = ((i+shift)%dimension + dimension) % dimension
	}
	return p
}
