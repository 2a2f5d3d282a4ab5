package logging

import (
	"log/slog"
	"os"
)

// NewHandler creates a handler appropriate for the environment.
// Production uses JSON format at Info level, development uses
// human-readable text at Debug level. Exposed separately from NewLogger
// so callers can wrap it (the run log recorder tees through it).
func NewHandler(env string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if env == "production" {
		return slog.NewJSONHandler(os.Stdout, opts)
	}

	opts.Level = slog.LevelDebug

	return slog.NewTextHandler(os.Stdout, opts)
}

// NewLogger creates a structured logger appropriate for the environment.
func NewLogger(env string) *slog.Logger {
	return slog.New(NewHandler(env))
}
