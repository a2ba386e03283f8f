package vector

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension is returned when a vector is created with a non-positive dimension.
	ErrInvalidDimension = errors.New("vector: dimension must be positive")

	// ErrUnknownType is returned for an unsupported vector type.
	ErrUnknownType = errors.New("vector: unknown vector type")

	// ErrTypeMismatch is returned when vectors of different types are combined.
	ErrTypeMismatch = errors.New("vector: type mismatch")

	// ErrInvalidPermutation is returned when a permutation does not match the vector dimension.
	ErrInvalidPermutation = errors.New("vector: invalid permutation")

	// ErrInvalidSeedLength is returned when a seed length is negative or exceeds the dimension.
	ErrInvalidSeedLength = errors.New("vector: invalid seed length")

	// ErrNoCandidates is returned by NearestVector for an empty candidate list.
	ErrNoCandidates = errors.New("vector: no candidates")
)

// ErrDimensionMismatch indicates that two vectors of different dimension were combined.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("vector: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func checkCompatible(a, b Vector) error {
	if a.Type() != b.Type() {
		return fmt.Errorf("%w: %s vs %s", ErrTypeMismatch, a.Type(), b.Type())
	}
	if a.Dimension() != b.Dimension() {
		return &ErrDimensionMismatch{Expected: a.Dimension(), Actual: b.Dimension()}
	}
	return nil
}
