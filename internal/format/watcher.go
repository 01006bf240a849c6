package format

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"
)

// Watcher monitors a working tree and triggers re-formatting on change.
// It is the developer-side complement of the event-driven pipeline and never
// commits anything.
type Watcher struct {
	root   string
	logger *slog.Logger
	Ready  chan struct{}

	group      singleflight.Group
	newWatcher func() (*fsnotify.Watcher, error)
}

// NewWatcher creates a new Watcher for the tree rooted at root.
func NewWatcher(root string, logger *slog.Logger) *Watcher {
	return &Watcher{
		root:       root,
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
	}
}

// Watch starts monitoring the tree for changes. It calls the provided
// callback whenever a relevant change is detected, and blocks until the
// context is cancelled. Callbacks rewrite files, which itself raises events;
// overlapping triggers are collapsed so the callback never runs concurrently
// with itself.
func (w *Watcher) Watch(ctx context.Context, callback func()) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addRecursive(watcher, w.root); err != nil {
		return err
	}

	w.logger.Info("Watching for changes", "root", w.root)
	if w.Ready != nil {
		close(w.Ready)
	}

	var timer *time.Timer
	const debounceDuration = 200 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-watcher.Errors:
			w.logger.Error("Watcher error", "error", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(watcher, ev) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDuration, func() {
				_, _, _ = w.group.Do("format", func() (interface{}, error) {
					callback()
					return nil, nil
				})
			})
		}
	}
}

// handleEvent processes a single fsnotify event. New directories are added to
// the watch set. It reports whether the event should trigger a re-format.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	if ignored(ev.Name) {
		return false
	}

	if ev.Has(fsnotify.Create) {
		info, err := os.Stat(ev.Name)
		if err == nil && info.IsDir() {
			if err := w.addRecursive(watcher, ev.Name); err != nil {
				w.logger.Error("Failed to watch new directory", "path", ev.Name, "error", err)
			}
			return false
		}
	}

	return true
}

// addRecursive adds path and all its non-ignored subdirectories to the
// watcher.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if ignored(p) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

// ignored reports whether a path lies inside version-control metadata.
func ignored(path string) bool {
	base := filepath.Base(path)
	if base == ".git" {
		return true
	}
	return strings.Contains(path, string(filepath.Separator)+".git"+string(filepath.Separator)) ||
		strings.HasSuffix(path, string(filepath.Separator)+".git")
}
