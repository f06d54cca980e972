package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrNilTransaction indicates Apply was called without a transaction.
	ErrNilTransaction = errors.New("nil transaction")

	// ErrRootOffset indicates a document root that does not start at 0.
	ErrRootOffset = errors.New("document root must start at offset 0")

	// ErrInvalidSnapshot indicates a snapshot that cannot be restored.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
