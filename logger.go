package distilgo

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/time/rate"
)

// Logger wraps slog.Logger with distilgo-specific context.
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

// WithPath adds a file path field to the logger (useful for tagging operations).
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithColors adds a palette size field to the logger.
func (l *Logger) WithColors(colors int) *Logger {
	return &Logger{
		Logger: l.Logger.With("colors", colors),
	}
}

// WithThreshold adds a merge threshold field to the logger.
func (l *Logger) WithThreshold(threshold float64) *Logger {
	return &Logger{
		Logger: l.Logger.With("threshold", threshold),
	}
}

// LogExtract logs a palette extraction.
func (l *Logger) LogExtract(ctx context.Context, pixels, entries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "extract failed",
			"pixels", pixels,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "extract completed",
			"pixels", pixels,
			"entries", entries,
		)
	}
}

// LogDecode logs an image decode operation.
func (l *Logger) LogDecode(ctx context.Context, format string, width, height int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "decode failed",
			"format", format,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "decode completed",
			"format", format,
			"width", width,
			"height", height,
		)
	}
}

// LogBatch logs a batch extraction over multiple files.
func (l *Logger) LogBatch(ctx context.Context, total, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "batch extract completed with failures",
			"total", total,
			"failed", failed,
			"success", total-failed,
		)
	} else {
		l.InfoContext(ctx, "batch extract completed",
			"total", total,
		)
	}
}

// newTrainProgress returns a quantizer progress callback that logs at debug
// level, throttled to a few events per second. The final step always logs.
func newTrainProgress(logger *Logger) func(step, total int) {
	limiter := rate.NewLimiter(rate.Limit(5), 1)

	return func(step, total int) {
		if step == total || limiter.Allow() {
			logger.Debug("training progress",
				"step", step,
				"total", total,
			)
		}
	}
}
