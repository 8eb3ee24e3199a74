package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/sitegen/internal/generation"
)

// Common service errors - sentinel errors callers check with errors.Is().
var (
	// ErrEmptyPrompt indicates the prompt was blank after trimming.
	// API layer should map this to HTTP 400 Bad Request.
	ErrEmptyPrompt = generation.ErrEmptyPrompt

	// ErrPromptTooLong indicates the prompt exceeds the configured maximum length.
	// API layer should map this to HTTP 400 Bad Request.
	ErrPromptTooLong = errors.New("prompt exceeds maximum length")

	// ErrGenerationInProgress indicates every generation slot is busy.
	// API layer should map this to HTTP 409 Conflict.
	ErrGenerationInProgress = errors.New("a generation is already in progress")

	// ErrNoGeneration indicates nothing has been generated since startup.
	// API layer should map this to HTTP 404 Not Found.
	ErrNoGeneration = errors.New("no site has been generated yet")
)

// SiteServiceError wraps errors from the site service with context.
type SiteServiceError struct {
	// Operation is the operation that failed (e.g., "generate", "write_site")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for SiteServiceError.
func (e *SiteServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("site service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("site service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SiteServiceError) Unwrap() error {
	return e.Err
}

// NewSiteServiceError creates a new SiteServiceError.
// Service sentinel errors are returned directly without wrapping.
func NewSiteServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range []error{
		ErrPromptTooLong,
		ErrGenerationInProgress,
		ErrNoGeneration,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}

	return &SiteServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
