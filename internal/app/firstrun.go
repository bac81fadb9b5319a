package app

import (
	"log/slog"
	"os"
	"path/filepath"
)

const (
	markerFileName = "first_run_completed"
	appName        = "dashspectre"
)

// ConfigDir returns the path to the application's configuration directory.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// IsFirstRun reports whether the application has run before, creating the
// marker file when it has not. Errors are logged and treated as "not first
// run" so startup never fails on marker bookkeeping.
func IsFirstRun() bool {
	appConfigDir, err := ConfigDir()
	if err != nil {
		slog.Error("failed to get app config directory", slog.String("error", err.Error()))
		return false
	}

	markerFilePath := filepath.Join(appConfigDir, markerFileName)

	if _, err := os.Stat(markerFilePath); os.IsNotExist(err) {
		if err := os.MkdirAll(appConfigDir, 0755); err != nil {
			slog.Error("failed to create app config directory", slog.String("path", appConfigDir), slog.String("error", err.Error()))
			return false
		}
		if _, err := os.Create(markerFilePath); err != nil {
			slog.Error("failed to create first run marker file", slog.String("path", markerFilePath), slog.String("error", err.Error()))
			return false
		}
		slog.Debug("first run detected and marker created", slog.String("path", markerFilePath))
		return true
	}

	return false
}
