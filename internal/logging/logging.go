// Package logging provides slog constructors shared by the pipeline stages.
package logging

import (
	"log/slog"
	"os"
)

// New returns a text slog.Logger writing to stderr tagged with the
// component name.
func New(component string) *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("NEWSDESK_DEBUG") != "" {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", component)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
