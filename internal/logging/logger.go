// Package logging builds the structured loggers used across flowbridge.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New constructs a JSON slog.Logger writing to stdout at the given level.
func New(service, version, level string) *slog.Logger {
	return NewWithWriter(os.Stdout, service, version, ParseLevel(level))
}

// NewWithWriter constructs a JSON slog.Logger writing to w.
func NewWithWriter(w io.Writer, service, version string, lvl slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: lvl,
	})
	return slog.New(handler).With(
		slog.String("service", service),
		slog.String("version", version))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel maps debug/info/warn/error onto slog levels; unknown values
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
