package generation

import (
	"context"
	"fmt"
)

// Generator defines the interface for generating a website from a prompt.
// This interface serves as a boundary between the application core and
// external AI/LLM services.
type Generator interface {
	// Generate produces a Site for the natural-language prompt.
	// Failures are returned as errors wrapping the sentinels in errors.go;
	// they never terminate the process.
	Generate(ctx context.Context, prompt string) (*Site, error)
}

// GeneratorFunc adapts an ordinary function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (*Site, error)

// Generate calls f(ctx, prompt).
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (*Site, error) {
	return f(ctx, prompt)
}

// Unavailable returns a Generator that rejects every request with
// ErrGeneratorUnavailable, used when no model backend is configured.
func Unavailable(reason string) Generator {
	return GeneratorFunc(func(context.Context, string) (*Site, error) {
		return nil, fmt.Errorf("%w: %s", ErrGeneratorUnavailable, reason)
	})
}
