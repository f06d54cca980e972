package transaction

import "errors"

// Errors returned by transaction steps.
var (
	// ErrNotNode indicates a step addressed a text run where it needs a node.
	ErrNotNode = errors.New("content element is not a node")

	// ErrNilStep indicates a nil step function was registered.
	ErrNilStep = errors.New("nil step")
)
