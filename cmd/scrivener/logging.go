package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
)

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// newHandler builds the log handler. Logs go to w, never to stdout, so
// command output stays pipeable.
func newHandler(level, format string, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func installLogger(cmd *cobra.Command, level, format string) {
	logger := clog.New(newHandler(level, format, cmd.ErrOrStderr()))
	cmd.SetContext(clog.WithLogger(cmd.Context(), logger))
}
