package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoHandle is returned for a script without a global handle function.
	ErrNoHandle = errors.New("script defines no handle function")

	// ErrInvalidEvent is returned for a script whose event global is
	// missing or unknown.
	ErrInvalidEvent = errors.New("script event is missing or unknown")

	// ErrInvalidOp is returned when handle returns an operation that
	// cannot be applied.
	ErrInvalidOp = errors.New("invalid operation")
)
