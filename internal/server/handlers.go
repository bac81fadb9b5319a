package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dashspectre/dashspectre/internal/classify"
	"github.com/dashspectre/dashspectre/internal/export"
	"github.com/dashspectre/dashspectre/internal/layout"
	"github.com/dashspectre/dashspectre/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard)
}

// handlePanels lists every panel in the current snapshot with its
// classified shape, without the raw data.
func (s *Server) handlePanels(w http.ResponseWriter, r *http.Request) {
	snap := s.currentSnapshot()

	type panelInfo struct {
		Ref     string        `json:"ref"`
		Title   string        `json:"title"`
		Shape   models.Shape  `json:"shape"`
		HasData bool          `json:"has_data"`
		Errors  []string      `json:"errors,omitempty"`
		Links   []models.Link `json:"links,omitempty"`
	}

	panels := make([]panelInfo, 0, len(snap.Panels))
	for _, panel := range snap.Panels {
		c := classify.Classify(panel.Results, panel.ShapeHint)
		info := panelInfo{
			Ref:     panel.Ref,
			Title:   panel.Title,
			Shape:   c.Shape,
			HasData: export.HasData(c),
			Links:   panel.Links,
		}
		for _, res := range panel.Results {
			if res.Error != nil {
				info.Errors = append(info.Errors, res.Error.Message)
			}
		}
		panels = append(panels, info)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dashboard":    snap.Dashboard,
		"generated_at": snap.GeneratedAt,
		"panels":       panels,
	})
}

func (s *Server) handlePanelData(w http.ResponseWriter, r *http.Request) {
	panel, ok := s.lookupPanel(w, r)
	if !ok {
		return
	}

	c := classify.Classify(panel.Results, panel.ShapeHint)
	writeJSON(w, http.StatusOK, map[string]any{
		"ref":     panel.Ref,
		"title":   panel.Title,
		"shape":   c.Shape,
		"payload": c.Payload(),
	})
}

// handlePanelExport streams the panel's data as a CSV attachment.
func (s *Server) handlePanelExport(w http.ResponseWriter, r *http.Request) {
	panel, ok := s.lookupPanel(w, r)
	if !ok {
		return
	}

	c := classify.Classify(panel.Results, panel.ShapeHint)
	if !export.HasData(c) {
		writeError(w, http.StatusNotFound, "panel has no exportable data")
		return
	}

	csv := export.ToCSV(c)
	filename := export.Filename(panel.Title, c.Shape)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		slog.Debug("failed to write export response", slog.Any("error", err))
	}
}

// handlePanelLayout computes the action layout plan for the requested
// rendering width.
func (s *Server) handlePanelLayout(w http.ResponseWriter, r *http.Request) {
	panel, ok := s.lookupPanel(w, r)
	if !ok {
		return
	}

	width := s.config.PanelWidth
	if raw := r.URL.Query().Get("width"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "width must be a positive integer")
			return
		}
		width = parsed
	}

	c := classify.Classify(panel.Results, panel.ShapeHint)
	set := layout.ActionSet{
		Description:     panel.Description,
		Links:           panel.Links,
		Indicator:       layout.IndicatorFor(panel.Results),
		HasReadHandlers: true,
		Exportable:      export.HasData(c),
	}

	writeJSON(w, http.StatusOK, layout.Compute(set, width))
}

func (s *Server) lookupPanel(w http.ResponseWriter, r *http.Request) (*models.PanelSnapshot, bool) {
	ref := chi.URLParam(r, "ref")
	panel := s.currentSnapshot().Panel(ref)
	if panel == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("panel %q not found", ref))
		return nil, false
	}
	return panel, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
