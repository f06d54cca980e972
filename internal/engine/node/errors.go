package node

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange indicates a content index outside a node's content.
var ErrIndexOutOfRange = errors.New("content index out of range")

// IndexError reports an invalid content index.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("content index %d out of range [0,%d)", e.Index, e.Len)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
