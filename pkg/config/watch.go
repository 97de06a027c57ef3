// pkg/config/watch.go
package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/opd-ai/go-orrery/pkg/logging"
)

// Watch reloads the config file whenever it is written or replaced and hands
// the new configuration to onChange. The containing directory is watched so
// editors that save by rename are seen too. Reload failures are logged and
// skipped. Watching stops when ctx is done.
func Watch(ctx context.Context, path string, logger *logging.Logger, onChange func(*Config)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve config path %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := LoadConfig(target)
				if err != nil {
					logger.Warn(ctx, "config reload failed", "path", target, "error", err.Error())
					continue
				}
				logger.Info(ctx, "config reloaded", "path", target, "op", event.Op.String())
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error(ctx, "config watcher error", err, "path", target)
			}
		}
	}()

	return nil
}
