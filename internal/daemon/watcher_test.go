package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigWatcher_FiresOnModTimeChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("scratchpads: []\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	changed := make(chan struct{}, 1)
	w := NewConfigWatcher(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, testLogger())
	w.SetPollInterval(10 * time.Millisecond)

	w.Start(context.Background())
	defer w.Stop()

	// Push the mtime forward explicitly so the change is visible even on
	// filesystems with coarse timestamp resolution.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes failed: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change callback")
	}
}

func TestConfigWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("scratchpads: []\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	w := NewConfigWatcher(path, func() {}, testLogger())
	w.SetPollInterval(10 * time.Millisecond)
	w.Start(context.Background())

	w.Stop()
	w.Stop()
}
