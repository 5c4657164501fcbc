// Package watch starts a run whenever new page scans settle in the input folder.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lehigh-university-libraries/pagetagger/internal/batch"
)

const DefaultQuietPeriod = 10 * time.Second

// Trigger starts one run
type Trigger func(ctx context.Context) error

type Watcher struct {
	dir     string
	ext     string
	quiet   time.Duration
	trigger Trigger
	started chan struct{}
}

func New(dir, ext string, quiet time.Duration, trigger Trigger) *Watcher {
	if ext == "" {
		ext = batch.DefaultExtension
	}
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Watcher{
		dir:     dir,
		ext:     ext,
		quiet:   quiet,
		trigger: trigger,
		started: make(chan struct{}),
	}
}

// Started is closed once the input folder is being watched
func (w *Watcher) Started() <-chan struct{} {
	return w.started
}

// Run watches until ctx is cancelled. A run starts once no matching file has
// been created or written for the quiet period. Failed runs are logged and
// watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	close(w.started)
	slog.Info("Watching input folder", "dir", w.dir, "extension", w.ext, "quiet", w.quiet)

	var fire <-chan time.Time
	if w.pending() {
		fire = time.After(w.quiet)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if filepath.Ext(event.Name) != w.ext {
				continue
			}
			slog.Debug("Input changed", "event", event.String())
			fire = time.After(w.quiet)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "err", err)
		case <-fire:
			fire = nil
			if !w.pending() {
				continue
			}
			if err := w.trigger(ctx); err != nil {
				slog.Error("Run failed", "err", err)
			}
		}
	}
}

func (w *Watcher) pending() bool {
	files, err := batch.ListInputs(w.dir, w.ext)
	if err != nil {
		slog.Warn("Failed to list input folder", "err", err)
		return false
	}
	return len(files) > 0
}
