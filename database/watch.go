package database

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates a live query when the database file is written by
// another process, e.g. the CLI while the server is running.
type Watcher struct {
	watcher  *fsnotify.Watcher
	live     *LiveQuery
	logger   *slog.Logger
	names    map[string]bool
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer

	done chan struct{}
}

// NewWatcher starts watching the directory holding dbPath
func NewWatcher(dbPath string, live *LiveQuery, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		watcher:  fw,
		live:     live,
		logger:   logger,
		names:    map[string]bool{abs: true, abs + "-wal": true},
		debounce: 50 * time.Millisecond,
		done:     make(chan struct{}),
	}
	go w.run()

	return w, nil
}

// Close stops watching
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.names[filepath.Clean(event.Name)] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("database watcher error", "error", err)
		}
	}
}

// schedule collapses a burst of file events into one invalidation
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.logger.Debug("database file changed, refreshing live query")
		w.live.Invalidate()
	})
}
