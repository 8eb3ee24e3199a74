package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when site generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate site from prompt")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during site generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyPrompt is returned when the prompt is empty after trimming
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrGeneratorUnavailable is returned when no generator backend is configured
	ErrGeneratorUnavailable = errors.New("site generator is not available")
)
