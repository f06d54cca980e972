package config

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationFailed is wrapped by every validation error.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidEnv indicates an environment override could not be parsed.
	ErrInvalidEnv = errors.New("invalid environment override")

	// ErrWatcherClosed is returned when using a closed Watcher.
	ErrWatcherClosed = errors.New("watcher closed")
)

// ParseError reports a config file that could not be decoded.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string

	// Err is the decoder error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
