package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"focuskeeper/internal/ui/preferences"
)

// WatchSettings calls onChange with freshly loaded settings whenever
// settings.yaml in configDir is written, created or renamed into place. It
// blocks until ctx is done. Files that fail to parse are logged and skipped.
func WatchSettings(ctx context.Context, configDir string, logger *slog.Logger, onChange func(preferences.Settings)) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: atomic saves replace the file inode.
	if err := watcher.Add(configDir); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}

	target := filepath.Clean(SettingsPath(configDir))
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
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			settings, err := LoadSettings(configDir)
			if err != nil {
				logger.Warn("reload settings", "error", err)
				continue
			}
			logger.Info("settings reloaded", "path", target)
			onChange(settings)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("settings watcher", "error", err)
		}
	}
}
