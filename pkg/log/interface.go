// Package log provides the structured logging interface used by basiskit.
//
// The Logger interface is slog-shaped so callers pass key/value pairs, and the
// default backend is zerolog. Loggers come from a LoggerProvider that tests can
// replace with a TestLoggerProvider.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("optimize").With(
//	    log.ModelNameKey, "LogRegClassifier",
//	)
//	logger.Debug("gradient descent finished",
//	    log.IterationKey, 250,
//	    log.LossKey, 0.31,
//	)
package log

import (
	"context"
)

// Logger is a leveled, structured logger.
type Logger interface {
	// Debug logs detailed diagnostics such as per-run optimizer statistics.
	Debug(msg string, fields ...any)

	// Info logs operational progress.
	Info(msg string, fields ...any)

	// Warn logs conditions that deserve attention but do not stop the caller.
	Warn(msg string, fields ...any)

	// Error logs an error condition. If the first field is an error it is
	// attached together with its stack trace.
	//
	// Example:
	//   logger.Error("training failed", err, log.OperationKey, log.OperationTrain)
	Error(msg string, fields ...any)

	// With returns a logger that adds fields to every entry.
	With(fields ...any) Logger

	// Enabled reports whether entries at level would be written.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level. Values match log/slog.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the upper-case level name.
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

// LoggerProvider creates loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for loggers created by this provider.
	SetLevel(level Level)
}
