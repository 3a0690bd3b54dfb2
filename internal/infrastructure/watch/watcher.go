// Package watch re-triggers pipeline runs when input files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"storytrace/internal/ports"
)

// FileWatcher watches a fixed set of files and invokes the job after a
// debounced Write or Create event on any of them.
type FileWatcher struct {
	paths    map[string]struct{}
	debounce time.Duration
	logger   zerolog.Logger
	stop     chan struct{}
}

var _ ports.Watcher = (*FileWatcher)(nil)

// NewFileWatcher registers the files to watch. A non-positive debounce
// defaults to 500ms.
func NewFileWatcher(paths []string, debounce time.Duration, logger zerolog.Logger) *FileWatcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	watched := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if abs, err := filepath.Abs(path); err == nil {
			watched[abs] = struct{}{}
		} else {
			watched[path] = struct{}{}
		}
	}
	return &FileWatcher{paths: watched, debounce: debounce, logger: logger}
}

// Start begins watching the parent directories of the registered files; the
// job fires once per debounce window with the time of the last event.
func (w *FileWatcher) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if w.stop != nil {
		return nil
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	dirs := map[string]struct{}{}
	for path := range w.paths {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := notifier.Add(dir); err != nil {
			_ = notifier.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.stop = make(chan struct{})
	go w.run(ctx, notifier, job, w.stop)
	return nil
}

// Stop halts the watcher goroutine.
func (w *FileWatcher) Stop(ctx context.Context) error {
	if w.stop == nil {
		return nil
	}
	close(w.stop)
	w.stop = nil
	return nil
}

func (w *FileWatcher) run(ctx context.Context, notifier *fsnotify.Watcher, job func(time.Time), stop <-chan struct{}) {
	defer notifier.Close()

	var timer *time.Timer
	var pending time.Time
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-notifier.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				abs = event.Name
			}
			if _, watched := w.paths[abs]; !watched {
				continue
			}
			w.logger.Debug().Str("path", abs).Str("op", event.Op.String()).Msg("input changed")
			pending = time.Now()
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			job(pending)
		case err, ok := <-notifier.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watch error")
		case <-ctx.Done():
			return
		case <-stop:
			return
		}
	}
}
