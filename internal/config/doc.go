// Package config loads, normalizes, and validates the TOML configuration
// for revclass.
//
// Load resolves the config path (explicit flag, ~/.config/revclass/config.toml,
// or ./revclass.toml), decodes the file over the built-in defaults, expands
// paths, and validates every field the classifier depends on. Configuration
// problems are fatal before any record is processed; the classifier never
// sees a partially valid config.
package config
