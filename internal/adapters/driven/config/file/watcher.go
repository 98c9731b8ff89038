package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MaxSetka1/max-autopost-bot/internal/logger"
)

// DefaultDebounce coalesces bursts of write events from editors.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls a function when any of a set of files in one directory changes.
type Watcher struct {
	dir      string
	names    map[string]bool
	onChange func()
	debounce time.Duration
}

// NewWatcher watches the named files inside dir.
func NewWatcher(dir string, names []string, onChange func()) *Watcher {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return &Watcher{dir: dir, names: set, onChange: onChange, debounce: DefaultDebounce}
}

// Run blocks until ctx is cancelled. The directory is watched rather than the
// files so editors that replace files on save keep triggering events.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			logger.Debug("config: %s %s", ev.Op, filepath.Base(ev.Name))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.onChange()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !w.names[filepath.Base(ev.Name)] {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}
