package logging

import "log/slog"

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldReportID is the standardized structured logging key for report identifiers.
	FieldReportID = "report_id"
	// FieldImage is the standardized structured logging key for image filenames.
	FieldImage = "image"
	// FieldArtifact is the standardized structured logging key for output artifact names.
	FieldArtifact = "artifact"
	// FieldDir is the standardized structured logging key for directory paths.
	FieldDir = "dir"
)

// Error wraps an error as a standardized slog attribute.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}
