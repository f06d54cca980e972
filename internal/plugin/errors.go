package plugin

import "errors"

// Plugin errors.
var (
	// ErrAlreadyRegistered is returned when a handler name is taken.
	ErrAlreadyRegistered = errors.New("handler is already registered")

	// ErrNotRegistered is returned for an unknown handler name.
	ErrNotRegistered = errors.New("handler is not registered")

	// ErrInvalidHandler is returned for a handler without a name or event.
	ErrInvalidHandler = errors.New("invalid handler")

	// ErrUnsupportedBlock is returned when an edit needs a block the
	// built-in editing cannot handle.
	ErrUnsupportedBlock = errors.New("unsupported block for edit")
)
