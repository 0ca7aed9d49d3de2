package tensor

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrShapeMismatch   = errors.New("shapes not compatible for broadcasting")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfBounds     = errors.New("index out of bounds")
)

// ShapeMismatchError reports the first aligned dimension at which two shapes
// cannot be broadcast. Dim is counted in the aligned (padded) rank.
type ShapeMismatchError struct {
	A, B  Shape
	Dim   int
	SizeA int
	SizeB int
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: %v vs %v (dimension %d: %d vs %d)",
		ErrShapeMismatch, e.A, e.B, e.Dim, e.SizeA, e.SizeB)
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeMismatchError) Unwrap() error {
	return ErrShapeMismatch
}

func invalidArgf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
