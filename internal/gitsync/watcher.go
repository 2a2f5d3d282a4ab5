package gitsync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// watchTick is how often the watcher checks for a quiet period.
	watchTick = 500 * time.Millisecond

	// watchQuiet is the debounce window: a sync triggers only after no
	// events have arrived for this long, so bulk saves and editor
	// write-then-rename dances collapse into a single run.
	watchQuiet = 2 * time.Second
)

// Watcher monitors the source directory and triggers a full re-sync
// after each burst of changes. Syncs run strictly one at a time; events
// arriving mid-sync start a new debounce window once the run finishes.
type Watcher struct {
	source  *Source
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	// onChange runs one sync. Errors are logged, not fatal: the watcher
	// keeps running so a transient failure self-heals on the next burst.
	onChange func(ctx context.Context) error
}

// NewWatcher creates a watcher over the given source that calls
// onChange after each debounced change burst.
func NewWatcher(source *Source, onChange func(ctx context.Context) error, logger *slog.Logger) *Watcher {
	return &Watcher{
		source:   source,
		onChange: onChange,
		logger:   logger,
	}
}

// Watch blocks until the context is cancelled, re-syncing after each
// quiet period. Directories are watched recursively, including ones
// created while watching.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	w.watcher = watcher
	defer watcher.Close()

	if err := w.addRecursive(w.source.Dir()); err != nil {
		return fmt.Errorf("watching source dir: %w", err)
	}

	w.logger.Info("file watcher started", slog.String("dir", w.source.Dir()))

	var lastEvent time.Time

	dirty := false

	ticker := time.NewTicker(watchTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("fsnotify events channel closed unexpectedly")
			}

			if w.shouldIgnore(event.Name) {
				continue
			}

			dirty = true
			lastEvent = time.Now()

			// New directories need their own watches.
			if event.Has(fsnotify.Create) {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.logger.Warn("watching new directory",
							slog.String("path", event.Name),
							slog.String("error", err.Error()),
						)
					}
				}
			}

			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				// On non-Linux platforms removed watches can leak.
				_ = watcher.Remove(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("fsnotify errors channel closed unexpectedly")
			}

			w.logger.Warn("watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			if !dirty || time.Since(lastEvent) < watchQuiet {
				continue
			}

			dirty = false

			w.logger.Info("changes detected, syncing")

			if err := w.onChange(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				w.logger.Error("sync failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if w.shouldIgnore(path) {
				return filepath.SkipDir
			}

			return w.watcher.Add(path)
		}

		return nil
	})
}

// shouldIgnore mirrors the scanner's skip rules so the watcher does not
// trigger syncs for files the scan would never pick up.
func (w *Watcher) shouldIgnore(path string) bool {
	if path == w.source.Dir() {
		return false
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}

	return ignoredDirs[base]
}
