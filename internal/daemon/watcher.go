package daemon

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ConfigWatcher polls the configuration file's modification time and
// invokes a callback when it changes. Polling keeps the daemon free of a
// filesystem-notification dependency and survives editors that replace
// the file instead of writing it in place.
type ConfigWatcher struct {
	mu     sync.Mutex
	logger *slog.Logger

	configPath   string
	lastModTime  time.Time
	pollInterval time.Duration
	onChange     func()

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewConfigWatcher creates a watcher for the given config path.
func NewConfigWatcher(configPath string, onChange func(), logger *slog.Logger) *ConfigWatcher {
	return &ConfigWatcher{
		logger:       logger,
		configPath:   configPath,
		pollInterval: time.Second,
		onChange:     onChange,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// SetPollInterval overrides the default one second polling interval.
func (w *ConfigWatcher) SetPollInterval(interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pollInterval = interval
}

// Start begins polling. It is a no-op if the watcher is already running.
func (w *ConfigWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true

	if info, err := os.Stat(w.configPath); err == nil {
		w.lastModTime = info.ModTime()
	}

	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.watchLoop(ctx)

	w.logger.Debug("config watcher started", "path", w.configPath, "interval", w.pollInterval)
}

// Stop stops polling and waits for the loop to exit.
func (w *ConfigWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	w.logger.Debug("config watcher stopped")
}

func (w *ConfigWatcher) watchLoop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.checkForChanges()
		}
	}
}

func (w *ConfigWatcher) checkForChanges() {
	info, err := os.Stat(w.configPath)
	if err != nil {
		// A briefly missing file during an atomic save is normal.
		return
	}

	w.mu.Lock()
	changed := info.ModTime().After(w.lastModTime)
	if changed {
		w.lastModTime = info.ModTime()
	}
	callback := w.onChange
	w.mu.Unlock()

	if changed && callback != nil {
		w.logger.Info("config file changed", "path", w.configPath)
		callback()
	}
}
