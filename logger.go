package scanio

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with scanio-specific context.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithFile adds the file name to the logger.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", name),
	}
}

// LogEnqueue logs an enqueued region. Enqueue never blocks, so there is no
// context to carry here.
func (l *Logger) LogEnqueue(region Region, err error) {
	if err != nil {
		l.Error("enqueue rejected",
			"offset", region.Offset,
			"length", region.Length,
			"error", err,
		)
	} else {
		l.Debug("region enqueued",
			"offset", region.Offset,
			"length", region.Length,
		)
	}
}

// LogLoad logs a completed load cycle.
func (l *Logger) LogLoad(ctx context.Context, logType LogType, stats LoadStats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"log_type", logType.String(),
			"regions", stats.Regions,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "load completed",
			"log_type", logType.String(),
			"regions", stats.Regions,
			"reads", stats.Reads,
			"bytes_requested", stats.BytesRequested,
			"bytes_read", stats.BytesRead,
			"duration", stats.Duration,
		)
	}
}
