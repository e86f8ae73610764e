// Package logging centralises the structured logger used across the CLI
// and HTTP surface, following the reference pack's own use of log/slog
// rather than a third-party logging package.
package logging

import (
	"log/slog"
	"os"
)

// New returns a slog.Logger writing JSON to stderr at level, suitable
// for both the CLI's own diagnostics and the HTTP surface's request
// logging middleware.
func New(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// ParseLevel maps a lowercase level name (debug, info, warn, error) to a
// slog.Level, defaulting to Info for anything unrecognised.
func ParseLevel(name string) slog.Level {
	switch name {
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
