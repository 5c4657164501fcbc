package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, dir string) (chan struct{}, *Watcher) {
	t.Helper()
	runs := make(chan struct{}, 10)
	w := New(dir, ".jpg", 50*time.Millisecond, func(context.Context) error {
		// mimic a run moving the files out
		files, _ := filepath.Glob(filepath.Join(dir, "*.jpg"))
		for _, f := range files {
			os.Remove(f)
		}
		runs <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	select {
	case <-w.Started():
	case <-time.After(5 * time.Second):
		t.Fatal("Watcher did not start")
	}
	return runs, w
}

func TestWatchTriggersOnNewFile(t *testing.T) {
	dir := t.TempDir()
	runs, _ := startWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-runs:
		t.Fatal("Unexpected run for non-matching file")
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(filepath.Join(dir, "W_2021_iss1_Page1.jpg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected a run after the quiet period")
	}
}

func TestWatchTriggersForExistingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "W_2021_iss1_Page1.jpg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	runs, _ := startWatcher(t, dir)

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected a run for files present at startup")
	}
}

func TestWatchMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), "", 0, func(context.Context) error { return nil })
	if err := w.Run(context.Background()); err == nil {
		t.Fatal("Expected error for missing directory")
	}
}
