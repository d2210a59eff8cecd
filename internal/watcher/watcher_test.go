package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/jobs-dashboard/internal/logger"
	"github.com/jonesrussell/jobs-dashboard/internal/watcher"
)

// chanInvalidator signals each invalidation on a channel.
type chanInvalidator struct {
	ch chan struct{}
}

func newChanInvalidator() *chanInvalidator {
	return &chanInvalidator{ch: make(chan struct{}, 16)}
}

func (i *chanInvalidator) Invalidate() {
	i.ch <- struct{}{}
}

func (i *chanInvalidator) wait(t *testing.T) {
	t.Helper()
	select {
	case <-i.ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for cache invalidation")
	}
}

func TestWatcher_InvalidatesOnCSVWrite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "jobs.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Filename\n"), 0o644))

	inv := newChanInvalidator()
	w, err := watcher.New(csvPath, inv, logger.NewNop())
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(csvPath, []byte("Filename\na.html\n"), 0o644))

	inv.wait(t)
}

func TestWatcher_InvalidatesOnAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "jobs.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Filename\n"), 0o644))

	inv := newChanInvalidator()
	w, err := watcher.New(csvPath, inv, logger.NewNop())
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	// Harvesters write to a temp file and rename it into place
	tmpPath := filepath.Join(dir, "jobs.csv.tmp")
	require.NoError(t, os.WriteFile(tmpPath, []byte("Filename\na.html\n"), 0o644))
	require.NoError(t, os.Rename(tmpPath, csvPath))

	inv.wait(t)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	_, err := watcher.New(filepath.Join(t.TempDir(), "nope", "jobs.csv"), newChanInvalidator(), logger.NewNop())
	require.Error(t, err)
}

func TestHandle_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "jobs.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Filename\n"), 0o644))

	inv := newChanInvalidator()
	w, err := watcher.New(csvPath, inv, logger.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	w.Handle(fsnotify.Event{Name: filepath.Join(dir, "other.txt"), Op: fsnotify.Write})
	w.Handle(fsnotify.Event{Name: csvPath, Op: fsnotify.Chmod})

	assert.Empty(t, inv.ch)

	w.Handle(fsnotify.Event{Name: csvPath, Op: fsnotify.Write})
	assert.Len(t, inv.ch, 1)
}
