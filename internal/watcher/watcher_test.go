package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/diagdash/internal/watcher"
)

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "readings.csv")
	err := os.WriteFile(dataPath, []byte("sensor_id\n"), 0644)
	require.NoError(t, err, "failed to create test file")

	w, err := watcher.New(watcher.Config{
		DataPath:    dataPath,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		err := os.WriteFile(dataPath, []byte(fmt.Sprintf("sensor_id\ns-%d\n", i)), 0644)
		require.NoError(t, err, "failed to write file")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
		// Expected
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
		// Expected - no second notification
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "readings.csv")
	otherPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(dataPath, []byte("sensor_id\n"), 0644))
	require.NoError(t, os.WriteFile(otherPath, []byte("initial"), 0644))

	w, err := watcher.New(watcher.Config{
		DataPath:    dataPath,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	require.NoError(t, os.WriteFile(otherPath, []byte("changed"), 0644))

	select {
	case <-onChange:
		t.Fatal("unexpected notification for unrelated file")
	case <-time.After(150 * time.Millisecond):
		// Expected
	}
}

func TestWatcher_DetectsFileReplacement(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "readings.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte("sensor_id\n"), 0644))

	w, err := watcher.New(watcher.Config{
		DataPath:    dataPath,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Simulate an editor writing a temp file and renaming it into place.
	tmpPath := filepath.Join(dir, ".readings.csv.tmp")
	require.NoError(t, os.WriteFile(tmpPath, []byte("sensor_id\ns-1\n"), 0644))
	require.NoError(t, os.Rename(tmpPath, dataPath))

	select {
	case <-onChange:
		// Expected
	case <-time.After(300 * time.Millisecond):
		t.Fatal("expected notification after file replacement")
	}
}

func TestWatcher_StopClosesCleanly(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "readings.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte("sensor_id\n"), 0644))

	w, err := watcher.New(watcher.DefaultConfig(dataPath))
	require.NoError(t, err, "failed to create watcher")

	_, err = w.Start()
	require.NoError(t, err, "failed to start watcher")

	require.NoError(t, w.Stop())
}
