package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/oshokin/traffic-light/internal/logger"
)

// DefaultWatchDebounce is the quiet time after the last file event before
// the settings are reloaded. Editors often write a file in several steps.
const DefaultWatchDebounce = 100 * time.Millisecond

// Watch reloads the settings at path whenever the file changes and passes
// every valid result to onChange. Invalid files are logged and skipped.
// It blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	return watch(ctx, path, DefaultWatchDebounce, onChange)
}

func watch(ctx context.Context, path string, debounce time.Duration, onChange func(*Config)) error {
	if path == "" {
		path = DefaultConfigFilename
	}

	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	defer func() {
		_ = watcher.Close()
	}()

	// Watch the directory: editors replace files by rename, which drops a
	// watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch settings directory: %w", err)
	}

	ctx = logger.WithKV(ctx, "settings", path)

	debounceTimer := time.NewTimer(debounce)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}

	for {
		select {
		case <-ctx.Done():
			debounceTimer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != path {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounceTimer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.WarnKV(ctx, "Settings watcher error", "error", err)
		case <-debounceTimer.C:
			cfg, err := Load(path)
			if err != nil {
				logger.WarnKV(ctx, "Settings reload skipped", "error", err)
				continue
			}

			logger.InfoKV(ctx, "Settings reloaded",
				"red", cfg.RedPeriod, "yellow", cfg.YellowPeriod, "green", cfg.GreenPeriod)

			onChange(cfg)
		}
	}
}
