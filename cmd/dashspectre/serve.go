package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dashspectre/dashspectre/internal/server"
	"github.com/dashspectre/dashspectre/pkg/config"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dashboard and panel data over HTTP",
		Long: `Start a local HTTP server exposing the dashboard definition, per-panel
classified data, CSV export, and action-layout endpoints.

With --watch the snapshot file is reloaded on change and connected
clients are notified over /api/live.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if fc, path, err := config.AutoLoadFile(); err != nil {
				return err
			} else if fc != nil {
				if err := fc.ApplyTo(cfg); err != nil {
					return fmt.Errorf("invalid config file %s: %w", path, err)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.DashboardFile, "dashboard", "./dashboard.json", "Dashboard definition file (json or yaml)")
	cmd.Flags().StringVar(&cfg.SnapshotFile, "snapshot", "./results.json", "Snapshot file to serve")
	cmd.Flags().IntVar(&cfg.ServerPort, "port", 8080, "Port to serve on")
	cmd.Flags().IntVar(&cfg.PanelWidth, "panel-width", 600, "Default panel width for layout plans")
	cmd.Flags().BoolVar(&cfg.Watch, "watch", false, "Reload the snapshot on change and push live updates")

	return cmd
}

// runServe starts the panel server
func runServe(cfg *config.Config) error {
	if _, err := os.Stat(cfg.SnapshotFile); os.IsNotExist(err) {
		return fmt.Errorf("snapshot not found: %s\nRun 'dashspectre query' first to collect results", cfg.SnapshotFile)
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url := "http://localhost:" + strconv.Itoa(cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Serving panels at %s (Ctrl+C to stop)\n", url)

	return srv.ListenAndServe(ctx)
}
