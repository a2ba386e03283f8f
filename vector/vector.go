package vector

import (
	"fmt"
	"io"
	"strings"
)

// Type identifies one of the supported vector representations.
type Type int

const (
	// TypeReal is a dense vector of float32 coordinates.
	TypeReal Type = iota
	// TypeBinary is a bit-packed vector with majority-vote superposition.
	TypeBinary
	// TypeComplex is a dense vector of complex64 coordinates.
	TypeComplex
)

func (t Type) String() string {
	switch t {
	case TypeReal:
		return "real"
	case TypeBinary:
		return "binary"
	case TypeComplex:
		return "complex"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// ParseType parses the textual name of a vector type (case-insensitive).
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "real":
		return TypeReal, nil
	case "binary":
		return TypeBinary, nil
	case "complex":
		return TypeComplex, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Vector is the capability surface shared by all vector types.
//
// Vectors are not safe for concurrent mutation.
type Vector interface {
	// Type returns the representation of the vector.
	Type() Type

	// Dimension returns the fixed dimension of the vector.
	Dimension() int

	// IsZero reports whether the vector has not received any evidence.
	IsZero() bool

	// Copy returns a deep copy of the vector.
	Copy() Vector

	// Superpose adds weight * permute(other) to the vector. A nil permutation
	// is the identity; otherwise coordinate i of other is added at perm[i].
	Superpose(other Vector, weight float64, perm Permutation) error

	// Normalize scales the vector so that its overlap with itself is 1.
	// Normalizing a zero vector is a no-op.
	Normalize()

	// MeasureOverlap returns the similarity of the vector and other under the
	// metric of the vector type. It returns 0 if either vector is zero.
	MeasureOverlap(other Vector) (float64, error)

	// WriteTo writes the serialized coordinates of the vector.
	WriteTo(w io.Writer) (int64, error)

	// ReadFrom replaces the coordinates with values read from r.
	ReadFrom(r io.Reader) (int64, error)
}

type options struct {
	decimalPlaces int
}

// Option configures vector construction.
type Option func(*options)

// DefaultDecimalPlaces is the default precision of binary vote accumulators.
const DefaultDecimalPlaces = 2

// WithDecimalPlaces sets the number of decimal places kept by the vote
// accumulator of binary vectors. Negative values are treated as zero.
func WithDecimalPlaces(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.decimalPlaces = n
	}
}

// New creates a zero vector of the given type and dimension.
func New(typ Type, dimension int, optFns ...Option) (Vector, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dimension)
	}
	opts := options{decimalPlaces: DefaultDecimalPlaces}
	for _, fn := range optFns {
		fn(&opts)
	}
	switch typ {
	case TypeReal:
		return NewReal(dimension), nil
	case TypeBinary:
		return NewBinary(dimension, opts.decimalPlaces), nil
	case TypeComplex:
		return NewComplex(dimension), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
}

// Permutation maps coordinate i of a source vector to coordinate p[i].
type Permutation []int

func (p Permutation) validate(dimension int) error {
	if p == nil {
		return nil
	}
	if len(p) != dimension {
		return fmt.Errorf("%w: length %d for dimension %d", ErrInvalidPermutation, len(p), dimension)
	}
	for i, j := range p {
		if j < 0 || j >= dimension {
			return fmt.Errorf("%w: entry %d maps to %d", ErrInvalidPermutation, i, j)
		}
	}
	return nil
}

func (p Permutation) target(i int) int {
	if p == nil {
		return i
	}
	return p[i]
}
