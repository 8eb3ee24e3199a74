package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/sitegen/internal/config"
	"github.com/phrazzld/sitegen/internal/generation"
	"github.com/phrazzld/sitegen/internal/platform/gemini"
	"github.com/phrazzld/sitegen/internal/redact"
	"github.com/phrazzld/sitegen/internal/server"
	"github.com/phrazzld/sitegen/internal/service"
	"github.com/phrazzld/sitegen/internal/site"
	"github.com/spf13/afero"
)

// application holds all the shared application dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger

	generator   generation.Generator
	writer      *site.Writer
	siteService service.SiteService
	bootstrap   *server.Bootstrap
}

// buildGenerator returns the Gemini generator when an API key is configured.
// Without a key, or if the client cannot be created, the service still starts
// and generation requests fail with generation.ErrGeneratorUnavailable.
func buildGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) generation.Generator {
	if !cfg.HasAPIKey() {
		logger.Warn("No Gemini API key configured; set GEMINI_API_KEY or GOOGLE_API_KEY to enable generation")
		return generation.Unavailable("no Gemini API key configured")
	}

	gen, err := gemini.NewGenerator(ctx, logger.With("component", "llm_generator"), cfg)
	if err != nil {
		logger.Error("Failed to initialize LLM generator", "error", redact.Error(err))
		return generation.Unavailable("LLM generator failed to initialize")
	}

	logger.Info("LLM generator initialized successfully", "model", cfg.ModelName)
	return gen
}

// newApplication wires the writer, service, router and server bootstrap
// around gen.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	fs afero.Fs,
	gen generation.Generator,
) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		generator: gen,
	}

	var err error
	app.writer, err = site.NewWriter(fs, cfg.Output.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize site writer: %w", err)
	}

	app.siteService, err = service.NewSiteService(gen, app.writer, service.Options{
		MaxConcurrent:    cfg.Generate.MaxConcurrent,
		MaxPromptLength:  cfg.Generate.MaxPromptLength,
		ClearBeforeWrite: cfg.Output.ClearBeforeWrite,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize site service: %w", err)
	}

	app.bootstrap, err = server.New(cfg.Server, app.setupRouter(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	return app, nil
}

// generateOnStartup runs the configured startup prompt, if any. A failure
// here is a startup failure.
func (app *application) generateOnStartup(ctx context.Context) error {
	prompt := app.config.Generate.Prompt
	if prompt == "" {
		return nil
	}

	app.logger.Info("Generating site from startup prompt",
		"prompt_preview", generation.Preview(prompt, 80))

	gen, err := app.siteService.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("startup generation failed: %w", err)
	}

	app.logger.Info("Startup site generated",
		"generation_id", gen.ID.String(),
		"dir", gen.Dir)
	return nil
}

// serve runs the HTTP server until ctx is cancelled or a shutdown signal
// arrives.
func (app *application) serve(ctx context.Context) error {
	if !app.writer.HasIndex() {
		app.logger.Warn("No index.html in output directory yet; POST /api/generate to create one",
			"dir", app.writer.Dir())
	}
	return app.bootstrap.Run(ctx)
}
