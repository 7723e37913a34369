package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize config watcher")

// watchDebounce coalesces the burst of events an editor emits for one save.
const watchDebounce = 100 * time.Millisecond

// Watch reloads configPath whenever it is written or replaced and passes each
// valid result to onChange. A file that fails to load or validate is reported
// to onError and the previous configuration stays in effect.
//
// The parent directory is watched rather than the file, so atomic
// rename-over saves are seen. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, configPath string, onChange func(*Config), onError func(error)) error {
	if configPath == "" {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		configPath = path
	}
	if onError == nil {
		onError = func(error) {}
	}

	target, err := filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				debounce = time.After(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(err)

		case <-debounce:
			debounce = nil
			cfg, err := LoadWithFile(target)
			if err != nil {
				onError(err)
				continue
			}
			onChange(cfg)
		}
	}
}
