package dac

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseFile reads a dashboard document from a JSON or YAML file, picking the
// codec by extension (.yaml/.yml, anything else is treated as JSON).
func ParseFile(path string) (*Dashboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard file %q: %w", path, err)
	}

	var d Dashboard
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse dashboard YAML %q: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse dashboard JSON %q: %w", path, err)
		}
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dashboard %q: %w", path, err)
	}
	return &d, nil
}

// Validate checks the invariants a loaded document must satisfy before any
// panel query runs.
func (d *Dashboard) Validate() error {
	if d.Kind != "Dashboard" {
		return fmt.Errorf("expected kind Dashboard, got %q", d.Kind)
	}
	if strings.TrimSpace(d.Metadata.Name) == "" {
		return fmt.Errorf("metadata.name is required")
	}
	for id, panel := range d.Spec.Panels {
		if panel.Kind != "Panel" {
			return fmt.Errorf("panel %q: expected kind Panel, got %q", id, panel.Kind)
		}
		if len(panel.Spec.Queries) == 0 {
			return fmt.Errorf("panel %q has no queries", id)
		}
	}
	for _, layout := range d.Spec.Layouts {
		for _, item := range layout.Spec.Items {
			ref := strings.TrimPrefix(item.Content.Ref, "#/spec/panels/")
			if ref == item.Content.Ref {
				return fmt.Errorf("layout item ref %q is not a panel reference", item.Content.Ref)
			}
			if _, ok := d.Spec.Panels[ref]; !ok {
				return fmt.Errorf("layout item references unknown panel %q", ref)
			}
		}
	}
	return nil
}

// PanelIDs returns the panel ids in layout order, then any unplaced panels
// in sorted order.
func (d *Dashboard) PanelIDs() []string {
	var ids []string
	seen := map[string]bool{}
	for _, layout := range d.Spec.Layouts {
		for _, item := range layout.Spec.Items {
			ref := strings.TrimPrefix(item.Content.Ref, "#/spec/panels/")
			if !seen[ref] {
				seen[ref] = true
				ids = append(ids, ref)
			}
		}
	}

	var rest []string
	for id := range d.Spec.Panels {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}
