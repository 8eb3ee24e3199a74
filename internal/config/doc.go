// Package config handles configuration loading, parsing, and validation
// from various sources (defaults, an optional config file, an optional .env
// file and environment variables). It provides type-safe access to the
// settings needed by the server bootstrap, the Gemini generator and the site
// writer while keeping configuration details separate from business logic.
//
// A loaded Config is treated as immutable for the lifetime of the process and
// is passed explicitly to the components that need it.
package config
