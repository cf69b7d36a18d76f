package nearset

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with nearset-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithOp adds an operation field to the logger.
func (l *Logger) WithOp(op Op) *Logger {
	return &Logger{
		Logger: l.Logger.With("op", op.String()),
	}
}

// WithEpsilon adds an epsilon field to the logger.
func (l *Logger) WithEpsilon(epsilon float64) *Logger {
	return &Logger{
		Logger: l.Logger.With("epsilon", epsilon),
	}
}

// LogOperation logs the outcome of a set operation.
// results is -1 when the result has no natural size.
func (l *Logger) LogOperation(ctx context.Context, op Op, inputs, results int, elapsed time.Duration, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "operation failed",
			"op", op.String(),
			"inputs", inputs,
			"error", err,
		)
	default:
		l.DebugContext(ctx, "operation completed",
			"op", op.String(),
			"inputs", inputs,
			"results", results,
			"elapsed", elapsed,
		)
	}
}

// LogCanceled logs an operation that stopped on cancellation after
// reaching the given progress fraction.
func (l *Logger) LogCanceled(ctx context.Context, op Op, inputs int, reached float64, elapsed time.Duration) {
	l.DebugContext(ctx, "operation canceled",
		"op", op.String(),
		"inputs", inputs,
		"progress", reached,
		"elapsed", elapsed,
	)
}

// LogProbeChange logs a change of the probe-function list.
func (l *Logger) LogProbeChange(ctx context.Context, action, name string, dimensions int) {
	l.InfoContext(ctx, "probe functions changed",
		"action", action,
		"probe", name,
		"dimensions", dimensions,
	)
}

// LogRangeViolation logs a probe value outside its declared range.
func (l *Logger) LogRangeViolation(ctx context.Context, index int, err error) {
	l.WarnContext(ctx, "probe range violation",
		"index", index,
		"error", err,
	)
}
