package server

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/dashspectre/dashspectre/internal/reporter"
)

// watchSnapshot reloads the snapshot whenever its file changes on disk.
// Collectors typically rewrite the file whole, so the directory is watched
// rather than the file itself to survive rename-based replacement.
func (s *Server) watchSnapshot(ctx context.Context) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	target, err := filepath.Abs(s.config.SnapshotFile)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				abs, err := filepath.Abs(event.Name)
				if err != nil || abs != target {
					continue
				}
				s.reloadSnapshot()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("snapshot watcher error", slog.Any("error", err))
			}
		}
	}()

	return func() { watcher.Close() }, nil
}

func (s *Server) reloadSnapshot() {
	snap, err := reporter.ReadSnapshot(s.config.SnapshotFile)
	if err != nil {
		slog.Warn("failed to reload snapshot", slog.Any("error", err))
		return
	}
	slog.Debug("snapshot reloaded",
		slog.String("dashboard", snap.Dashboard),
		slog.Int("panels", len(snap.Panels)))
	s.replaceSnapshot(snap)
}
