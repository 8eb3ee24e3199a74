package server

import (
	"errors"
	"fmt"
)

// ErrAlreadyStarted is returned by Start when the bootstrap is not stopped.
var ErrAlreadyStarted = errors.New("server already started")

// BindError reports that the listener could not be bound.
type BindError struct {
	// Addr is the address the bind was attempted on
	Addr string
	// Err is the underlying listen error
	Err error
}

// Error implements the error interface for BindError.
func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind %s: %v", e.Addr, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *BindError) Unwrap() error {
	return e.Err
}
