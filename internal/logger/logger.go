// Package logger builds the structured logger threaded through the
// pipeline and server. Logs go to stderr so stdout stays free for command
// output and the MCP protocol.
package logger

import (
	"io"
	"log/slog"
)

// New creates a text-handler slog.Logger on w. Verbose selects debug level;
// otherwise informational messages and up are emitted.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything, for tests and callers
// that want a quiet pipeline.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
