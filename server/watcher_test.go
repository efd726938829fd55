package server

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/slimgen/logger"
)

const testDebounce = 50 * time.Millisecond

func startWatcher(t *testing.T, rebuild RebuildFunc) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range WatchDirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}

	w, err := NewWatcher(root, WatchDirs, testDebounce, rebuild, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	return root
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("<?php\n"), 0o644))
}

func TestWatcherRebuildsOnceForBurst(t *testing.T) {
	var calls atomic.Int32
	root := startWatcher(t, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	for i := range 5 {
		writeFile(t, filepath.Join(root, "src", "Controller", "UserController.php"))
		if i == 2 {
			writeFile(t, filepath.Join(root, "src", "App", "Routes.php"))
		}
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(4 * testDebounce)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	var calls atomic.Int32
	root := startWatcher(t, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	writeFile(t, filepath.Join(root, "src", "Service", "notes.txt"))
	writeFile(t, filepath.Join(root, "src", "Service", ".UserService.php.swp"))

	time.Sleep(6 * testDebounce)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatcherKeepsRunningAfterFailure(t *testing.T) {
	var calls atomic.Int32
	root := startWatcher(t, func(context.Context) error {
		if calls.Add(1) == 1 {
			return errors.New("broken routes file")
		}
		return nil
	})

	path := filepath.Join(root, "src", "Service", "UserService.php")
	writeFile(t, path)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	writeFile(t, path)
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestNewWatcherMissingDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "App"), 0o755))

	w, err := NewWatcher(root, WatchDirs, 0, func(context.Context) error { return nil }, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
	require.NoError(t, w.watcher.Close())

	_, err = NewWatcher(t.TempDir(), WatchDirs, 0, func(context.Context) error { return nil }, logger.Nop())
	assert.Error(t, err)
}
