// Package logging assembles the structured slog loggers used across the
// report pipeline.
//
// It owns the configurable console/JSON handlers and centralizes level and
// output plumbing. All log output is routed to stderr and/or a log file,
// never stdout: stdout is reserved for the machine-parsed progress lines the
// pipeline emits for external callers. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape and routing guarantees.
package logging
