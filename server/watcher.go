package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gaborage/slimgen/logger"
)

// DefaultDebounce collapses bursts of editor writes into one rebuild.
const DefaultDebounce = 200 * time.Millisecond

// WatchDirs are the project directories that feed the document.
var WatchDirs = []string{"src/App", "src/Controller", "src/Service"}

// RebuildFunc regenerates the document.
type RebuildFunc func(ctx context.Context) error

// Watcher calls a RebuildFunc after PHP sources change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	rebuild  RebuildFunc
	debounce time.Duration
	log      logger.Logger
}

// NewWatcher watches dirs below root. Directories that do not exist are
// skipped with a warning; an error is returned when none can be watched.
func NewWatcher(root string, dirs []string, debounce time.Duration, rebuild RebuildFunc, log logger.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watched := 0
	for _, d := range dirs {
		dir := filepath.Join(root, d)
		if info, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) || (err == nil && !info.IsDir()) {
			log.Warn().Str("dir", dir).Msg("Watch directory missing, skipping")
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		watched++
	}
	if watched == 0 {
		fw.Close()
		return nil, fmt.Errorf("no directory to watch under %s", root)
	}

	return &Watcher{watcher: fw, rebuild: rebuild, debounce: debounce, log: log}, nil
}

// Run processes events until ctx is cancelled. Rebuild failures are
// logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Source changed")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			start := time.Now()
			if err := w.rebuild(ctx); err != nil {
				w.log.Error().Err(err).Msg("Failed to rebuild API document")
				continue
			}
			w.log.Info().Dur("elapsed", time.Since(start)).Msg("Rebuilt API document")

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("Watcher error")
		}
	}
}

// relevant keeps content changes to PHP files.
func relevant(e fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(e.Name), ".php") {
		return false
	}
	return e.Has(fsnotify.Write) || e.Has(fsnotify.Create) || e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename)
}
