// Package logging builds slog loggers and carries them through
// context.Context.
package logging

import (
	"context"
	"io"
	"log/slog"
)

type key struct{}

var loggerKey = key{}

// New creates a logger with the given level ("debug", "info", "warn",
// "error") and format ("json" or "text"). It does not touch the global
// logger.
func New(levelStr, formatStr string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(levelStr)}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithLogger returns a new context with the logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from ctx, falling back to slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
