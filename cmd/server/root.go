package main

import (
	"context"
	"fmt"

	"github.com/phrazzld/sitegen/internal/config"
	"github.com/phrazzld/sitegen/internal/platform/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// rootOptions holds the command-line flags.
type rootOptions struct {
	configFile string
	envFile    string
	prompt     string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:          "sitegen",
		Short:        "Generate a website from a prompt with Gemini and serve it",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config", "", "path to a YAML config file (default ./config.yaml if present)")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "path to a .env file (default ./.env if present)")
	cmd.Flags().StringVar(&opts.prompt, "prompt", "", "generate a site from this prompt before serving")
	return cmd
}

// run loads configuration, wires the application and serves until shutdown.
func run(ctx context.Context, opts rootOptions) error {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ConfigFile: opts.configFile,
		EnvFile:    opts.envFile,
	})
	if err != nil {
		return err
	}
	if opts.prompt != "" {
		cfg.Generate.Prompt = opts.prompt
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"output_dir", cfg.Output.Dir,
		"model", cfg.LLM.ModelName,
		"api_key_present", cfg.LLM.HasAPIKey())

	gen := buildGenerator(ctx, cfg.LLM, log)

	app, err := newApplication(cfg, log, afero.NewOsFs(), gen)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.generateOnStartup(ctx); err != nil {
		log.Error("Startup generation failed", "error", err)
		return err
	}

	if err := app.serve(ctx); err != nil {
		log.Error("Server stopped with error", "error", err)
		return err
	}

	log.Info("Server stopped")
	return nil
}
