package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when it is read from the
// environment, e.g. server.port becomes SITEGEN_SERVER_PORT.
const EnvPrefix = "SITEGEN"

// DefaultPort is the port the service binds when nothing overrides it.
const DefaultPort = 8000

const (
	defaultEnvFile    = ".env"
	defaultConfigName = "config"
)

// LoadOptions points Load at explicit files. Zero values fall back to the
// optional defaults (.env and config.yaml in the working directory).
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
}

// Load configuration from the default sources.
// Environment variables take precedence over values from config files.
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions loads configuration from defaults, an optional config file,
// an optional .env file and the environment, then validates it.
// Every failure is reported as a *ConfigurationError.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindAliases(v); err != nil {
		return nil, &ConfigurationError{Err: fmt.Errorf("failed to bind environment: %w", err)}
	}

	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Err: fmt.Errorf("failed to decode configuration: %w", err)}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks a Config against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ConfigurationError{
				Field: verrs[0].Namespace(),
				Err:   fmt.Errorf("validation failed: %w", err),
			}
		}
		return &ConfigurationError{Err: fmt.Errorf("validation failed: %w", err)}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("server.read_header_timeout_seconds", 10)

	v.SetDefault("llm.model_name", "gemini-2.5-flash")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.prompt_template_path", "")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_output_tokens", 2000)
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_delay_seconds", 5)
	v.SetDefault("llm.request_timeout_seconds", 60)

	v.SetDefault("output.dir", "out")
	v.SetDefault("output.clear_before_write", false)

	v.SetDefault("generate.prompt", "")
	v.SetDefault("generate.max_concurrent", 1)
	v.SetDefault("generate.max_prompt_length", 4000)
}

// bindAliases maps the conventional unprefixed variables onto config keys.
// The prefixed name is listed first so it wins when both are set.
func bindAliases(v *viper.Viper) error {
	if err := v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT"); err != nil {
		return err
	}
	return v.BindEnv("llm.gemini_api_key",
		EnvPrefix+"_LLM_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return &ConfigurationError{Field: "config_file", Err: fmt.Errorf("failed to read %q: %w", path, err)}
	}
	return nil
}

// loadEnvFile sources a .env file into the process environment without
// overriding variables that are already set.
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return &ConfigurationError{Field: "env_file", Err: fmt.Errorf("failed to stat %q: %w", path, err)}
	}

	if err := godotenv.Load(path); err != nil {
		return &ConfigurationError{Field: "env_file", Err: fmt.Errorf("failed to parse %q: %w", path, err)}
	}
	return nil
}
