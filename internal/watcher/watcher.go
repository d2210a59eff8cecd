// Package watcher invalidates the view cache when the canonical CSV listing
// changes on disk.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jonesrussell/jobs-dashboard/internal/logger"
)

// Invalidator clears a cached view.
type Invalidator interface {
	Invalidate()
}

// Watcher watches the canonical CSV file and invalidates the cache on change.
type Watcher struct {
	fsw  *fsnotify.Watcher
	path string
	inv  Invalidator
	log  logger.Logger
	wg   sync.WaitGroup
}

// New creates a Watcher for the given CSV path. The parent directory is
// watched because harvesters typically replace the file rather than appending
// to it.
func New(csvPath string, inv Invalidator, log logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if addErr := fsw.Add(filepath.Dir(csvPath)); addErr != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(csvPath), addErr)
	}

	return &Watcher{
		fsw:  fsw,
		path: filepath.Clean(csvPath),
		inv:  inv,
		log:  log,
	}, nil
}

// Start launches the event loop goroutine.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop closes the watcher and waits for the event loop to finish.
func (w *Watcher) Stop() {
	_ = w.fsw.Close()
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("CSV watcher error", logger.Error(err))
		}
	}
}

// handle invalidates the cache when the canonical listing is written, created,
// or renamed into place.
func (w *Watcher) handle(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.log.Info("Canonical listing changed, invalidating view cache",
		logger.String("event", event.Op.String()),
	)
	w.inv.Invalidate()
}
