package reporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dashspectre/dashspectre/internal/models"
	"github.com/dashspectre/dashspectre/pkg/config"
)

// WriteManifest writes the bundle index to manifest.json
func WriteManifest(manifest *models.Manifest, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest to JSON: %w", err)
	}

	outputPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest.json: %w", err)
	}

	slog.Debug("manifest written", slog.String("path", outputPath))
	return nil
}

// WriteSnapshot persists a collection run as pretty-printed JSON.
func WriteSnapshot(snap *models.Snapshot, path string) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot to JSON: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads a snapshot produced by a previous collection run.
func ReadSnapshot(path string) (*models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %q: %w", path, err)
	}

	snap := &models.Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %q: %w", path, err)
	}
	return snap, nil
}
