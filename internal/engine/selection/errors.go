package selection

import "errors"

// Errors returned by selection operations.
var (
	// ErrOutOfBounds indicates a selection outside the document's range.
	ErrOutOfBounds = errors.New("selection out of bounds")

	// ErrNoRoot indicates a tracker without a document root.
	ErrNoRoot = errors.New("tracker has no document root")
)
