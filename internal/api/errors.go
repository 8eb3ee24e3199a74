package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/sitegen/internal/api/shared"
	"github.com/phrazzld/sitegen/internal/generation"
	"github.com/phrazzld/sitegen/internal/service"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case errors.Is(err, service.ErrEmptyPrompt),
		errors.Is(err, service.ErrPromptTooLong):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, service.ErrNoGeneration):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrGenerationInProgress):
		return http.StatusConflict

	// Model replied with something that is not a site
	case errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusUnprocessableEntity

	// Upstream refused or failed permanently
	case errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	// No model configured
	case errors.Is(err, generation.ErrGeneratorUnavailable),
		errors.Is(err, generation.ErrInvalidConfig):
		return http.StatusServiceUnavailable

	// Retries exhausted
	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrEmptyPrompt):
		return "Prompt cannot be empty"
	case errors.Is(err, service.ErrPromptTooLong):
		return "Prompt is too long"
	case errors.Is(err, service.ErrNoGeneration):
		return "No site has been generated yet"
	case errors.Is(err, service.ErrGenerationInProgress):
		return "A generation is already in progress, try again shortly"
	case errors.Is(err, generation.ErrInvalidResponse):
		return "The model returned output that could not be turned into a site"
	case errors.Is(err, generation.ErrContentBlocked):
		return "The request was blocked by the model's safety filters"
	case errors.Is(err, generation.ErrGenerationFailed):
		return "Site generation failed"
	case errors.Is(err, generation.ErrGeneratorUnavailable),
		errors.Is(err, generation.ErrInvalidConfig):
		return "Site generation is not configured"
	case errors.Is(err, generation.ErrTransientFailure):
		return "The model did not respond in time, try again later"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a user-friendly message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "Invalid " + strings.ToLower(fe.Field()) + ": " + getValidationTagMessage(fe.Tag())
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted detail.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
