package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dashspectre/dashspectre/internal/reporter"
	"github.com/dashspectre/dashspectre/pkg/config"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a snapshot as per-panel CSV files",
		Long: `Classify every panel in a snapshot and write one CSV file per panel
that has exportable data, plus a manifest indexing the bundle.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if fc, path, err := config.AutoLoadFile(); err != nil {
				return err
			} else if fc != nil {
				if err := fc.ApplyTo(cfg); err != nil {
					return fmt.Errorf("invalid config file %s: %w", path, err)
				}
			}
			cfg.Normalize()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.SnapshotFile, "snapshot", "./results.json", "Snapshot file to export")
	cmd.Flags().StringVar(&cfg.OutputDir, "output", "./export", "Output directory")
	cmd.Flags().StringSliceVar(&cfg.IncludePanels, "include-panels", nil, "Panel title patterns to include (glob)")
	cmd.Flags().StringSliceVar(&cfg.ExcludePanels, "exclude-panels", nil, "Panel title patterns to exclude (glob)")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Verbose logging")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Dry run mode (don't write output)")

	return cmd
}

// runExport executes the export workflow
func runExport(cfg *config.Config) error {
	fmt.Println("📂 Reading snapshot...")
	snap, err := reporter.ReadSnapshot(cfg.SnapshotFile)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	fmt.Printf("✓ Snapshot of %q with %d panels\n", snap.Dashboard, len(snap.Panels))

	if cfg.DryRun {
		fmt.Println("🏃 Dry run mode - skipping output")
		return nil
	}

	fmt.Println("📝 Writing CSV files...")
	rep := reporter.New(cfg, version)
	manifest, err := rep.Generate(snap)
	if err != nil {
		return fmt.Errorf("failed to generate export bundle: %w", err)
	}

	for _, entry := range manifest.Panels {
		if entry.Skipped {
			fmt.Printf("  - %s: skipped (%s)\n", entry.Title, entry.Reason)
			continue
		}
		fmt.Printf("  - %s: %s\n", entry.Title, entry.Filename)
	}

	if manifest.Exported == 0 {
		return &NoExportsError{Panels: len(snap.Panels)}
	}

	fmt.Printf("\n✅ Exported %d of %d panels to %s\n",
		manifest.Exported, len(snap.Panels), cfg.OutputDir)
	return nil
}
