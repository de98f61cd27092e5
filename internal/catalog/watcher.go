package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/logoteca/internal/storage"
)

// ReloadCallback is called after a watcher-driven reload changed the catalog.
type ReloadCallback func(*Snapshot)

// reloadDelay coalesces bursts of file events into one reload.
const reloadDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on path and reloads cat whenever the
// catalog changes, until ctx is cancelled. path is either the image
// directory (any image file event counts) or a manifest file (only events
// on that file count; its parent directory is watched so editor
// replace-by-rename keeps working). cb, if non-nil, runs after each reload
// that changed the identifier list.
func Watch(ctx context.Context, cat *Catalog, path string, logger *slog.Logger, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	dir := abs
	relevant := func(name string) bool { return storage.IsImage(name) }
	if !info.IsDir() {
		dir = filepath.Dir(abs)
		relevant = func(name string) bool { return filepath.Clean(name) == abs }
	}
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("path", abs))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(reloadDelay)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(reloadDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			snap, changed, err := cat.Reload(ctx)
			if err != nil {
				logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			if !changed {
				logger.Debug("watcher: catalog unchanged")
				continue
			}
			if cb != nil {
				cb(snap)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || !relevant(ev.Name) {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			scheduleReload()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
