package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dashspectre/dashspectre/internal/classify"
	"github.com/dashspectre/dashspectre/internal/export"
	"github.com/dashspectre/dashspectre/internal/models"
	"github.com/dashspectre/dashspectre/internal/reporter"
	"github.com/dashspectre/dashspectre/pkg/config"
)

// NewPreviewCmd creates the preview command
func NewPreviewCmd() *cobra.Command {
	cfg := config.DefaultConfig()
	var format string

	cmd := &cobra.Command{
		Use:   "preview PANEL_REF",
		Short: "Preview one panel's classified data in the terminal",
		Long: `Classify a single panel from a snapshot and render its data as a table,
CSV, or JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.OutOrStdout(), cfg, args[0], format)
		},
	}

	cmd.Flags().StringVar(&cfg.SnapshotFile, "snapshot", "./results.json", "Snapshot file to preview")
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, csv, json)")

	return cmd
}

// runPreview classifies the panel and renders it in the requested format
func runPreview(w io.Writer, cfg *config.Config, ref, format string) error {
	snap, err := reporter.ReadSnapshot(cfg.SnapshotFile)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	panel := snap.Panel(ref)
	if panel == nil {
		return fmt.Errorf("panel %q not found in %s", ref, cfg.SnapshotFile)
	}

	c := classify.Classify(panel.Results, panel.ShapeHint)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"ref":     panel.Ref,
			"title":   panel.Title,
			"shape":   c.Shape,
			"payload": c.Payload(),
		})
	case "csv":
		_, err := fmt.Fprint(w, export.ToCSV(c))
		return err
	case "table":
		return renderPreviewTable(w, panel, c)
	default:
		return fmt.Errorf("invalid format %q (expected table, csv or json)", format)
	}
}

// renderPreviewTable renders the panel's CSV cell layout as a terminal table.
func renderPreviewTable(w io.Writer, panel *models.PanelSnapshot, c models.Classification) error {
	fmt.Fprintf(w, "%s (%s)\n", panel.Title, c.Shape)

	header, rows := export.Cells(c)
	if len(header) == 0 {
		fmt.Fprintln(w, "(no data)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, col := range header {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, cells := range rows {
		row := make(table.Row, len(cells))
		for i, cell := range cells {
			row[i] = cell
		}
		t.AppendRow(row)
	}

	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}
