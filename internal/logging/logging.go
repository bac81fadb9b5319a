// Package logging configures the process-wide slog default.
package logging

import (
	"log/slog"
	"os"
)

// Init installs the default logger. Warnings and errors always pass;
// verbose mode opens the gate down to debug.
func Init(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
