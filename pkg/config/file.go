package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFileYAML is the canonical config filename.
	DefaultConfigFileYAML = ".dashspectre.yaml"
	// DefaultConfigFileYML is a compatible alternate config filename.
	DefaultConfigFileYML = ".dashspectre.yml"
)

// FileConfig represents values loaded from a .dashspectre.yaml file.
type FileConfig struct {
	ClickHouseDSN string   `yaml:"clickhouse_dsn"`
	DashboardFile string   `yaml:"dashboard_file"`
	SnapshotFile  string   `yaml:"snapshot_file"`
	OutputDir     string   `yaml:"output_dir"`
	Format        string   `yaml:"format"`
	QueryTimeout  string   `yaml:"query_timeout"`
	IncludePanels []string `yaml:"include_panels"`
	ExcludePanels []string `yaml:"exclude_panels"`
	PanelWidth    *int     `yaml:"panel_width"`
	ServerPort    *int     `yaml:"server_port"`
}

// Normalize trims and removes empty items from list fields.
func (fc *FileConfig) Normalize() {
	if fc == nil {
		return
	}
	fc.IncludePanels = normalizeList(fc.IncludePanels)
	fc.ExcludePanels = normalizeList(fc.ExcludePanels)
	fc.ClickHouseDSN = strings.TrimSpace(fc.ClickHouseDSN)
	fc.DashboardFile = strings.TrimSpace(fc.DashboardFile)
	fc.SnapshotFile = strings.TrimSpace(fc.SnapshotFile)
	fc.OutputDir = strings.TrimSpace(fc.OutputDir)
	fc.Format = strings.TrimSpace(fc.Format)
	fc.QueryTimeout = strings.TrimSpace(fc.QueryTimeout)
}

// ApplyTo copies the file values onto cfg, leaving unset fields alone.
func (fc *FileConfig) ApplyTo(cfg *Config) error {
	if fc == nil || cfg == nil {
		return nil
	}
	if fc.ClickHouseDSN != "" {
		cfg.ClickHouseDSN = fc.ClickHouseDSN
	}
	if fc.DashboardFile != "" {
		cfg.DashboardFile = fc.DashboardFile
	}
	if fc.SnapshotFile != "" {
		cfg.SnapshotFile = fc.SnapshotFile
	}
	if fc.OutputDir != "" {
		cfg.OutputDir = fc.OutputDir
	}
	if fc.Format != "" {
		cfg.Format = fc.Format
	}
	if fc.QueryTimeout != "" {
		timeout, err := ParseDuration(fc.QueryTimeout)
		if err != nil {
			return fmt.Errorf("invalid query_timeout in config file: %w", err)
		}
		cfg.QueryTimeout = timeout
	}
	if len(fc.IncludePanels) > 0 {
		cfg.IncludePanels = fc.IncludePanels
	}
	if len(fc.ExcludePanels) > 0 {
		cfg.ExcludePanels = fc.ExcludePanels
	}
	if fc.PanelWidth != nil {
		cfg.PanelWidth = *fc.PanelWidth
	}
	if fc.ServerPort != nil {
		cfg.ServerPort = *fc.ServerPort
	}
	return nil
}

// AutoLoadFile discovers and loads the first available config file.
func AutoLoadFile() (*FileConfig, string, error) {
	candidates := []string{
		DefaultConfigFileYAML,
		DefaultConfigFileYML,
	}

	if homeDir, err := os.UserHomeDir(); err == nil && strings.TrimSpace(homeDir) != "" {
		candidates = append(candidates,
			filepath.Join(homeDir, DefaultConfigFileYAML),
			filepath.Join(homeDir, DefaultConfigFileYML),
		)
	}

	return LoadFirstExistingFile(candidates)
}

// LoadFirstExistingFile loads the first config file that exists in paths.
func LoadFirstExistingFile(paths []string) (*FileConfig, string, error) {
	for _, path := range paths {
		candidate := strings.TrimSpace(path)
		if candidate == "" {
			continue
		}

		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("failed to access config file %q: %w", candidate, err)
		}
		if info.IsDir() {
			return nil, "", fmt.Errorf("config path %q is a directory, expected a file", candidate)
		}

		cfg, err := LoadFile(candidate)
		if err != nil {
			return nil, "", err
		}
		return cfg, candidate, nil
	}

	return nil, "", nil
}

// LoadFile loads config values from a specific YAML file path.
func LoadFile(path string) (*FileConfig, error) {
	filename := strings.TrimSpace(path)
	if filename == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", filename, err)
	}

	cfg := &FileConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", filename, err)
	}

	cfg.Normalize()
	return cfg, nil
}

func normalizeList(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	normalized := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
