package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Output   OutputConfig   `mapstructure:"output" validate:"required"`
	Generate GenerateConfig `mapstructure:"generate" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Host                     string `mapstructure:"host" validate:"omitempty,hostname|ip"`
	Port                     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel                 string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat                string `mapstructure:"log_format" validate:"required,oneof=json text"`
	ShutdownTimeoutSeconds   int    `mapstructure:"shutdown_timeout_seconds" validate:"required,gte=1"`
	ReadHeaderTimeoutSeconds int    `mapstructure:"read_header_timeout_seconds" validate:"required,gte=1"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// GeminiAPIKey is optional at load time. Without it the server still
	// starts, but generation requests are rejected as unavailable.
	GeminiAPIKey          string  `mapstructure:"gemini_api_key"`
	ModelName             string  `mapstructure:"model_name" validate:"required"`
	BaseURL               string  `mapstructure:"base_url" validate:"omitempty,url"`
	PromptTemplatePath    string  `mapstructure:"prompt_template_path"`
	Temperature           float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxOutputTokens       int     `mapstructure:"max_output_tokens" validate:"required,gte=1"`
	MaxRetries            int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds     int     `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"required,gte=1"`
}

// OutputConfig controls where generated site files are written.
type OutputConfig struct {
	Dir              string `mapstructure:"dir" validate:"required"`
	ClearBeforeWrite bool   `mapstructure:"clear_before_write"`
}

// GenerateConfig controls when and how generation runs.
type GenerateConfig struct {
	// Prompt, when set, is generated once during startup before the
	// listener is bound.
	Prompt          string `mapstructure:"prompt"`
	MaxConcurrent   int    `mapstructure:"max_concurrent" validate:"required,gte=1"`
	MaxPromptLength int    `mapstructure:"max_prompt_length" validate:"required,gte=1"`
}

// HasAPIKey reports whether a Gemini API key is configured.
func (c LLMConfig) HasAPIKey() bool {
	return c.GeminiAPIKey != ""
}
