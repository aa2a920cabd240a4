package tagspec

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the layout file at path whenever it changes and hands each
// layout that compiles to apply. An edit that fails to load is logged and
// the previous layout stays in effect. Watch blocks until ctx is done.
//
// The parent directory is watched rather than the file so that editors
// which save by rename are still seen.
func Watch(ctx context.Context, path string, logger *slog.Logger, apply func(*Compiled)) error {
	if logger == nil {
		logger = slog.Default()
	}
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			spec, err := Load(path)
			if err != nil {
				logger.Warn("tagspec.reload.failed", "path", path, "error", err)
				continue
			}
			logger.Info("tagspec.reload", "path", path, "layout", spec.Layout)
			apply(spec)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("tagspec.watch.error", "error", err)
		}
	}
}
