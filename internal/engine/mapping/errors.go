package mapping

import (
	"errors"
	"fmt"
)

// Errors returned by mapping operations.
var (
	// ErrRangeOutOfBounds indicates a range outside the root's range, or a
	// range for which no containing element exists.
	ErrRangeOutOfBounds = errors.New("range out of bounds")

	// ErrOffsetOutOfBounds indicates an offset not covered by any content.
	ErrOffsetOutOfBounds = errors.New("offset out of bounds")

	// ErrViewMismatch indicates a rendered tree that is not parallel to the
	// document.
	ErrViewMismatch = errors.New("rendered view does not match document")
)

// RangeError describes a failed lookup.
type RangeError struct {
	Op    string
	Start int
	End   int
	Limit int
	Err   error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s [%d,%d] (document 0..%d): %v", e.Op, e.Start, e.End, e.Limit, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *RangeError) Unwrap() error {
	return e.Err
}

func rangeErr(op string, start, end, limit int, err error) error {
	return &RangeError{Op: op, Start: start, End: end, Limit: limit, Err: err}
}
