package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, w *Watcher) *atomic.Int32 {
	t.Helper()
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(context.Context) { calls.Add(1) })
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
	return &calls
}

func TestWatcher_FileChangeTriggersReload(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	file := filepath.Join(dir, "app.config")
	require.NoError(t, os.WriteFile(file, []byte("v1"), 0644))
	w, err := New([]string{file}, 100*time.Millisecond)
	require.NoError(t, err)
	calls := startWatcher(t, w)

	// --- Act ---
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(file, []byte("v2"), 0644))
	require.NoError(t, os.WriteFile(file, []byte("v3"), 0644))

	// --- Assert ---
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "a burst of writes is reported once")
}

func TestWatcher_DirectoryFiltersExtensions(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	w, err := New([]string{dir}, 20*time.Millisecond, ".hcl")
	require.NoError(t, err)
	calls := startWatcher(t, w)

	// --- Act ---
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	time.Sleep(100 * time.Millisecond)
	ignored := calls.Load()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "commands.HCL"), []byte("x"), 0644))

	// --- Assert ---
	assert.Zero(t, ignored)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestNew_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := New([]string{filepath.Join(t.TempDir(), "missing")}, 0)

	assert.Error(t, err)
}
