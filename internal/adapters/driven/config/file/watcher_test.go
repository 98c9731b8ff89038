package file

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Relevant(t *testing.T) {
	w := NewWatcher("/cfg", []string{ChannelsFile}, func() {})

	assert.True(t, w.relevant(fsnotify.Event{Name: "/cfg/channels.yaml", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/cfg/channels.yaml", Op: fsnotify.Rename}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/cfg/channels.yaml", Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/cfg/other.yaml", Op: fsnotify.Write}))
}

func TestWatcher_CallsOnChange(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	w := NewWatcher(dir, []string{SchedulesFile}, func() { calls.Add(1) })
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, SchedulesFile), []byte("timezone: UTC\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0600))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing"), []string{ChannelsFile}, func() {})
	assert.Error(t, w.Run(context.Background()))
}
