package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOption is returned for a flag that is not part of the schema.
	ErrUnknownOption = errors.New("unknown option")

	// ErrMissingValue is returned when a flag that takes a value is last on the command line.
	ErrMissingValue = errors.New("option requires an argument")

	// ErrInvalidValue is returned when a value cannot be parsed or is not allowed.
	ErrInvalidValue = errors.New("invalid value")
)

// Error describes an invalid configuration setting.
type Error struct {
	Option string
	Value  string
	Err    error
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("config: -%s: %v", e.Option, e.Err)
	}
	return fmt.Sprintf("config: -%s %q: %v", e.Option, e.Value, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func invalid(option, value, format string, args ...any) *Error {
	return &Error{Option: option, Value: value, Err: fmt.Errorf("%w: "+format, append([]any{ErrInvalidValue}, args...)...)}
}
