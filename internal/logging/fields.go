package logging

import "log/slog"

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRecordID is the standardized structured logging key for record identifiers.
	FieldRecordID = "record_id"
	// FieldRunID is the standardized structured logging key for classification run identifiers.
	FieldRunID = "run_id"
	// FieldChunk is the standardized structured logging key for chunk indexes.
	FieldChunk = "chunk"
	// FieldLabel is the standardized structured logging key for canonical labels.
	FieldLabel = "label"
)

// WithComponent returns a logger tagged with the component name.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}

// WithRun returns a logger tagged with the run identifier.
func WithRun(logger *slog.Logger, runID string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(slog.String(FieldRunID, runID))
}
