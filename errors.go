package semvec

import (
	"errors"
	"fmt"
)

var (
	// ErrHeaderMismatch is returned in strict mode when the doc-vector
	// stream was produced with a different vector type or dimension.
	ErrHeaderMismatch = errors.New("semvec: stream header does not match configuration")

	// ErrNilIndex is returned when a Builder is created without an index.
	ErrNilIndex = errors.New("semvec: index is nil")
)

// HeaderMismatchError describes a disagreement between the stream header
// and the active configuration.
type HeaderMismatchError struct {
	Option string
	Stream string
	Config string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("semvec: stream header %s=%s, configured %s", e.Option, e.Stream, e.Config)
}

func (e *HeaderMismatchError) Unwrap() error { return ErrHeaderMismatch }
