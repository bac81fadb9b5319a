package config

import "time"

// Config holds all runtime configuration
type Config struct {
	// Datasource settings
	ClickHouseDSN string
	QueryTimeout  time.Duration
	MaxRows       int
	RateLimit     int

	// Concurrency settings
	Concurrency int

	// Input settings
	DashboardFile string
	SnapshotFile  string

	// Panel selection
	IncludePanels []string
	ExcludePanels []string

	// Output settings
	OutputDir string
	Format    string

	// Layout settings
	PanelWidth int

	// Server settings
	ServerPort int
	Watch      bool

	// Operational flags
	Verbose bool
	DryRun  bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		QueryTimeout:  5 * time.Minute,
		MaxRows:       100000,
		RateLimit:     10,
		Concurrency:   5,
		DashboardFile: "./dashboard.json",
		SnapshotFile:  "./results.json",
		OutputDir:     "./export",
		Format:        "table",
		PanelWidth:    600,
		ServerPort:    8080,
		Watch:         false,
		Verbose:       false,
		DryRun:        false,
	}
}
