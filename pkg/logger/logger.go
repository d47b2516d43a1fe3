// Package logger configures the engine's single structured logger, the way
// sqldef's util.InitSlog reads LOG_LEVEL into a slog.TextHandler — adapted
// here to the engine's own -verbose flag instead of an environment variable,
// since the command-line front end (cmd/dbengine) owns that choice.
package logger

import (
	"log/slog"
	"os"
)

// New returns a slog.Logger writing to stderr, at Debug level when verbose
// is set and Info otherwise.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
