package models

import "time"

// PanelSpec is the executable description of one panel: what to query and
// how to present the result. Built from a dashboard document.
type PanelSpec struct {
	Ref         string   `json:"ref"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Links       []Link   `json:"links,omitempty"`
	Queries     []string `json:"queries"`
	TimeColumn  string   `json:"time_column,omitempty"`
	ShapeHint   Shape    `json:"shape_hint,omitempty"`
}

// PanelSnapshot is one panel's definition plus the results of its queries at
// collection time. Results are replaced wholesale on re-execution.
type PanelSnapshot struct {
	Ref         string        `json:"ref"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Links       []Link        `json:"links,omitempty"`
	ShapeHint   Shape         `json:"shape_hint,omitempty"`
	Results     []QueryResult `json:"results"`
}

// Snapshot is the complete output of one collection run.
type Snapshot struct {
	Tool        string          `json:"tool"`
	Version     string          `json:"version"`
	Dashboard   string          `json:"dashboard"`
	GeneratedAt time.Time       `json:"generated_at"`
	Panels      []PanelSnapshot `json:"panels"`
}

// Panel returns the panel snapshot matching ref, or nil.
func (s *Snapshot) Panel(ref string) *PanelSnapshot {
	if s == nil {
		return nil
	}
	for i := range s.Panels {
		if s.Panels[i].Ref == ref {
			return &s.Panels[i]
		}
	}
	return nil
}

// ManifestEntry records the export outcome for one panel.
type ManifestEntry struct {
	Ref      string `json:"ref"`
	Title    string `json:"title"`
	Shape    Shape  `json:"shape"`
	Filename string `json:"filename,omitempty"`
	Skipped  bool   `json:"skipped,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Manifest describes an export bundle: one CSV per exportable panel plus
// this index.
type Manifest struct {
	Tool        string          `json:"tool"`
	Version     string          `json:"version"`
	Dashboard   string          `json:"dashboard"`
	GeneratedAt time.Time       `json:"generated_at"`
	Exported    int             `json:"exported"`
	Panels      []ManifestEntry `json:"panels"`
}
