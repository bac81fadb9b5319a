package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dashspectre/dashspectre/internal/collector"
	"github.com/dashspectre/dashspectre/internal/models"
	"github.com/dashspectre/dashspectre/internal/reporter"
	"github.com/dashspectre/dashspectre/pkg/config"
	"github.com/dashspectre/dashspectre/pkg/dac"
)

// NewQueryCmd creates the query command
func NewQueryCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	// String variable for custom duration parsing
	var queryTimeoutStr string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Execute dashboard queries and snapshot the results",
		Long: `Execute every panel query of a dashboard definition against ClickHouse
and write the raw results to a snapshot file for later export or serving.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if fc, path, err := config.AutoLoadFile(); err != nil {
				return err
			} else if fc != nil {
				if err := fc.ApplyTo(cfg); err != nil {
					return fmt.Errorf("invalid config file %s: %w", path, err)
				}
			}

			if queryTimeoutStr != "" {
				var err error
				cfg.QueryTimeout, err = config.ParseDuration(queryTimeoutStr)
				if err != nil {
					return fmt.Errorf("invalid --query-timeout duration: %w", err)
				}
			}

			cfg.Normalize()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cfg)
		},
	}

	// ClickHouse flags
	cmd.Flags().StringVar(&cfg.ClickHouseDSN, "clickhouse-dsn", "", "ClickHouse DSN (required)")
	_ = cmd.MarkFlagRequired("clickhouse-dsn") // Error only occurs if flag doesn't exist

	cmd.Flags().StringVar(&queryTimeoutStr, "query-timeout", "5m", "Total query timeout (e.g., 5m, 10m, 1h)")
	cmd.Flags().IntVar(&cfg.MaxRows, "max-rows", 100000, "Max rows to keep per query")
	cmd.Flags().IntVar(&cfg.RateLimit, "rate-limit", 10, "Query rate limit (queries/sec, 0 to disable)")

	// Concurrency flags
	cmd.Flags().IntVar(&cfg.Concurrency, "concurrency", 5, "Worker pool size")

	// Input/output flags
	cmd.Flags().StringVar(&cfg.DashboardFile, "dashboard", "./dashboard.json", "Dashboard definition file (json or yaml)")
	cmd.Flags().StringVar(&cfg.SnapshotFile, "snapshot", "./results.json", "Snapshot output file")

	// Operational flags
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Verbose logging")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Dry run mode (don't write output)")

	return cmd
}

// runQuery executes the collection workflow
func runQuery(cfg *config.Config) error {
	startTime := time.Now()
	ctx := context.Background()

	// 1. Load the dashboard definition
	fmt.Println("📋 Loading dashboard...")
	dashboard, err := dac.ParseFile(cfg.DashboardFile)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}
	if err := dashboard.Validate(); err != nil {
		return fmt.Errorf("invalid dashboard: %w", err)
	}

	panels := collector.PanelSpecs(dashboard)
	fmt.Printf("✓ Dashboard %q with %d panels\n", dashboard.Metadata.Name, len(panels))

	// 2. Connect and run queries
	fmt.Println("🔌 Connecting to ClickHouse...")
	runner, err := collector.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create collector: %w", err)
	}
	defer runner.Close()

	fmt.Println("📊 Executing panel queries...")
	results, err := runner.Run(ctx, panels)
	if err != nil {
		return fmt.Errorf("failed to execute queries: %w", err)
	}

	failed := 0
	for _, panel := range results {
		for _, res := range panel.Results {
			if res.Error != nil {
				failed++
			}
		}
	}
	fmt.Printf("✓ Collected %d panels (%d query errors)\n", len(results), failed)

	// 3. Write the snapshot
	snap := &models.Snapshot{
		Tool:        "dashspectre",
		Version:     version,
		Dashboard:   dashboard.Metadata.Name,
		GeneratedAt: time.Now().UTC(),
		Panels:      results,
	}

	if !cfg.DryRun {
		fmt.Println("📝 Writing snapshot...")
		if err := reporter.WriteSnapshot(snap, cfg.SnapshotFile); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		fmt.Printf("✓ Snapshot written to: %s\n", cfg.SnapshotFile)
	} else {
		fmt.Println("🏃 Dry run mode - skipping output")
	}

	duration := time.Since(startTime)
	fmt.Printf("\n✅ Collection complete in %s!\n", duration.Round(time.Second))
	if !cfg.DryRun {
		fmt.Printf("\n📊 Next steps:\n")
		fmt.Printf("   dashspectre export --snapshot %s\n", cfg.SnapshotFile)
		fmt.Printf("   dashspectre serve --snapshot %s\n", cfg.SnapshotFile)
	}

	return nil
}
