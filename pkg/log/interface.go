// Package log provides a structured logging interface for grove's
// training and prediction operations.
//
// The package defines a minimal, slog-compatible logging interface with a
// zerolog backend. Components obtain named loggers (e.g. "forest.trainer")
// and emit structured key-value fields, so training progress and
// degenerate-fit diagnostics can be filtered and analyzed downstream.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("forest.trainer").With(
//	    log.ModelNameKey, "Forest",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, "train",
//	    log.SamplesKey, 1000,
//	    log.FeaturesKey, 5,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's
// log/slog. It is implementation-agnostic; the default backend is
// zerolog, and tests can swap in a buffer-backed provider.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If a field value is an error carrying a cockroachdb/errors stack
	// trace, the trace is attached under the "stacktrace" key.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given
	// level. Use it to avoid building expensive fields for records that
	// would be dropped.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, value-compatible with slog.Level.
type Level int

// Standard logging levels.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates and configures loggers. It allows dependency
// injection of alternative backends, e.g. the test provider.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for loggers from this provider.
	SetLevel(level Level)
}
