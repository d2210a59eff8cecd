package watcher

import "github.com/fsnotify/fsnotify"

// Handle exposes event handling for tests.
func (w *Watcher) Handle(event fsnotify.Event) {
	w.handle(event)
}
