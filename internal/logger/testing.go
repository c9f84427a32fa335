// Package logger provides test helpers for structured logging.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// NewTestLogger creates a logger for tests.
// It logs at WARN to keep test output quiet; set TEST_DEBUG to see debug output.
func NewTestLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("TEST_DEBUG") != "" {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// NewDiscardLogger returns a logger that drops everything.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
