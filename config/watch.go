package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// Watch reloads path whenever it changes on disk and hands each valid config
// to onChange. Invalid edits are logged and skipped. The watcher stops when
// ctx is cancelled.
func Watch(ctx context.Context, fsys afero.Fs, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}
	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				slog.Debug("config watcher stopped")
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				reload(fsys, path, onChange)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("config watcher error", "error", err)
			}
		}
	}()
	slog.Info("watching config for changes", "path", path)
	return nil
}

func reload(fsys afero.Fs, path string, onChange func(*Config)) {
	cfg, err := Load(fsys, path)
	if err != nil {
		slog.Warn("config reload rejected", "path", path, "error", err)
		return
	}
	slog.Info("config reloaded", "path", path, "config", cfg)
	onChange(cfg)
}
