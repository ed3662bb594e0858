package segy

import (
	"context"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
)

// Logger wraps slog.Logger with SEG-Y specific helpers, so every
// operation logs the same field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithShot adds a shot field to the logger.
func (l *Logger) WithShot(i int) *Logger {
	return &Logger{
		Logger: l.Logger.With("shot", i),
	}
}

// LogRead logs a whole-file read.
func (l *Logger) LogRead(ctx context.Context, path string, traces int, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "read failed",
			"path", path,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "file read",
			"path", path,
			"traces", traces,
			"size", humanize.Bytes(uint64(size)),
		)
	}
}

// LogWrite logs a whole-file write.
func (l *Logger) LogWrite(ctx context.Context, path string, traces int, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed",
			"path", path,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "file written",
			"path", path,
			"traces", traces,
			"size", humanize.Bytes(uint64(size)),
		)
	}
}

// LogScan logs the outcome of a multi-file scan.
func (l *Logger) LogScan(ctx context.Context, files, shots, traces, failed int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "scan failed",
			"files", files,
			"error", err,
		)
	case failed > 0:
		l.WarnContext(ctx, "scan completed with failures",
			"files", files,
			"failed", failed,
			"shots", shots,
			"traces", humanize.Comma(int64(traces)),
		)
	default:
		l.InfoContext(ctx, "scan completed",
			"files", files,
			"shots", shots,
			"traces", humanize.Comma(int64(traces)),
		)
	}
}
