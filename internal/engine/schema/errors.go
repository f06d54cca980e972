package schema

import "errors"

// Errors returned by schema operations.
var (
	// ErrUndefinedNodeType indicates a node type that is not registered.
	ErrUndefinedNodeType = errors.New("undefined node type")

	// ErrUnknownKind indicates a spec entry whose name has no node kind.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrInvalidJSON indicates a serialized node that cannot be decoded.
	ErrInvalidJSON = errors.New("invalid node json")

	// ErrUnsupportedFormat indicates a spec file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported spec format")
)
