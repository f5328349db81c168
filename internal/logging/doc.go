// Package logging assembles the structured slog loggers used across
// revclass.
//
// It centralizes level and output plumbing for the console and JSON
// formats, exposes standardized field keys so every component tags log
// lines the same way, and provides a no-op logger for tests and wiring
// code that cannot fail.
package logging
