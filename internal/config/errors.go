package config

import "fmt"

// ConfigurationError is returned by Load when configuration is missing,
// malformed or fails validation. It is fatal at startup.
type ConfigurationError struct {
	// Field is the configuration key involved, when known.
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
