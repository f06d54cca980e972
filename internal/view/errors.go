package view

import "errors"

var (
	// ErrNilState is returned by New without a state.
	ErrNilState = errors.New("view: nil state")

	// ErrNilSurface is returned by New without a surface.
	ErrNilSurface = errors.New("view: nil surface")
)
