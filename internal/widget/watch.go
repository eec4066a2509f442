package widget

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/username/skema-widget/internal/schedule"
	"go.uber.org/zap"
)

const watchDebounce = 250 * time.Millisecond

// Watch follows a FileStore snapshot the way the platform widget does: it
// reads the file once, then again after every rewrite, and hands each
// snapshot to fn. It never writes. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, logger *zap.Logger, fn func(schedule.WidgetData)) error {
	dir := filepath.Dir(path)
	name := filepath.Base(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create widget dir: %w", err)
	}

	// the store replaces the file with a rename, so watch the directory
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	// one load at a time, so fn is never called concurrently
	var (
		loadMu  sync.Mutex
		stopped bool
	)
	load := func() {
		loadMu.Lock()
		defer loadMu.Unlock()
		if stopped {
			return
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("Failed to read widget snapshot", zap.String("path", path), zap.Error(err))
			}
			fn(schedule.WidgetData{})
			return
		}
		data, err := decodeSnapshot(raw)
		if err != nil {
			logger.Warn("Ignoring unreadable widget snapshot", zap.String("path", path), zap.Error(err))
			return
		}
		fn(data)
	}

	load()

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, load)
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()

		// waits for a running load; later ones return early
		loadMu.Lock()
		stopped = true
		loadMu.Unlock()
	}()

	logger.Info("Watching widget snapshot", zap.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				logger.Debug("Widget snapshot changed", zap.String("op", event.Op.String()))
				debounce()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			logger.Warn("Widget watcher error", zap.Error(err))
		}
	}
}
