// Package server exposes a dashboard and its collected query results over
// HTTP: panel data, CSV export, layout plans, and a live-reload socket.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dashspectre/dashspectre/internal/models"
	"github.com/dashspectre/dashspectre/internal/reporter"
	"github.com/dashspectre/dashspectre/pkg/config"
	"github.com/dashspectre/dashspectre/pkg/dac"
)

// Server serves one dashboard plus the latest snapshot of its results.
type Server struct {
	config    *config.Config
	dashboard *dac.Dashboard

	mu       sync.RWMutex
	snapshot *models.Snapshot

	hub *hub
}

// New loads the dashboard and initial snapshot from the configured paths.
func New(cfg *config.Config) (*Server, error) {
	dashboard, err := dac.ParseFile(cfg.DashboardFile)
	if err != nil {
		return nil, err
	}

	snap, err := reporter.ReadSnapshot(cfg.SnapshotFile)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:    cfg,
		dashboard: dashboard,
		snapshot:  snap,
		hub:       newHub(),
	}, nil
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/dashboard", s.handleDashboard)
	r.Get("/api/panels", s.handlePanels)
	r.Route("/api/panels/{ref}", func(r chi.Router) {
		r.Get("/data", s.handlePanelData)
		r.Get("/export", s.handlePanelExport)
		r.Get("/layout", s.handlePanelLayout)
	})
	r.Get("/api/live", s.handleLive)

	return r
}

// ListenAndServe runs the server until ctx is cancelled, watching the
// snapshot file for changes when configured to.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.config.Watch {
		stop, err := s.watchSnapshot(ctx)
		if err != nil {
			return fmt.Errorf("failed to watch snapshot: %w", err)
		}
		defer stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.ServerPort),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	slog.Debug("panel server started", slog.Int("port", s.config.ServerPort))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	}
}

// currentSnapshot returns the latest loaded snapshot.
func (s *Server) currentSnapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// replaceSnapshot swaps in a freshly loaded snapshot and notifies viewers.
func (s *Server) replaceSnapshot(snap *models.Snapshot) {
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
	s.hub.broadcast("reload")
}
