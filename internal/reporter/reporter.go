// Package reporter writes export bundles: one CSV per exportable panel plus
// a manifest indexing them.
package reporter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dashspectre/dashspectre/internal/classify"
	"github.com/dashspectre/dashspectre/internal/export"
	"github.com/dashspectre/dashspectre/internal/models"
	"github.com/dashspectre/dashspectre/pkg/config"
)

// Reporter interface for generating export bundles
type Reporter interface {
	Generate(snap *models.Snapshot) (*models.Manifest, error)
}

// reporter implements the Reporter interface
type reporter struct {
	config  *config.Config
	version string
	now     func() time.Time
}

// New creates a new reporter instance
func New(cfg *config.Config, version string) Reporter {
	return &reporter{
		config:  cfg,
		version: version,
		now:     time.Now,
	}
}

// Generate classifies every selected panel's results and writes its CSV,
// then the manifest. Panels with nothing to export are recorded as skipped,
// never failed: absence of data is a normal outcome.
func (r *reporter) Generate(snap *models.Snapshot) (*models.Manifest, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}

	if err := os.MkdirAll(r.config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manifest := &models.Manifest{
		Tool:        "dashspectre",
		Version:     r.version,
		Dashboard:   snap.Dashboard,
		GeneratedAt: r.now().UTC(),
	}

	for _, panel := range snap.Panels {
		entry := models.ManifestEntry{Ref: panel.Ref, Title: panel.Title}

		if !r.config.IsPanelSelected(panel.Title) {
			entry.Skipped = true
			entry.Reason = "filtered out"
			manifest.Panels = append(manifest.Panels, entry)
			continue
		}

		c := classify.Classify(panel.Results, panel.ShapeHint)
		entry.Shape = c.Shape

		if !export.HasData(c) {
			entry.Skipped = true
			entry.Reason = "no exportable data"
			manifest.Panels = append(manifest.Panels, entry)
			continue
		}

		csvText := export.ToCSV(c)
		entry.Filename = export.Filename(panel.Title, c.Shape)

		outputPath := filepath.Join(r.config.OutputDir, entry.Filename)
		if err := os.WriteFile(outputPath, []byte(csvText), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", entry.Filename, err)
		}

		manifest.Exported++
		manifest.Panels = append(manifest.Panels, entry)
	}

	if err := WriteManifest(manifest, r.config); err != nil {
		return nil, err
	}
	return manifest, nil
}
