package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/sitegen/internal/config"
	"github.com/phrazzld/sitegen/internal/generation"
)

// validateConfig checks the settings the generator cannot run without and
// warns about values it will clamp.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		logger.ErrorContext(ctx, "Missing Gemini API key",
			"error", "GeminiAPIKey is empty")
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		logger.ErrorContext(ctx, "Missing model name",
			"error", "ModelName is empty")
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.MaxRetries < 0 {
		logger.WarnContext(ctx, "Invalid MaxRetries value",
			"value", cfg.MaxRetries,
			"action", "using default value")
	}

	if cfg.RetryDelaySeconds < 0 {
		logger.WarnContext(ctx, "Invalid RetryDelaySeconds value",
			"value", cfg.RetryDelaySeconds,
			"action", "retrying without delay")
	}

	return nil
}
