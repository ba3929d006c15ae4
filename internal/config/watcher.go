package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tailscan/tailscan/pkg/logger"
)

// Watcher watches a config file for changes and pushes reloaded
// configurations to subscribers. Editors often replace files via
// rename-and-create, so the parent directory is watched rather than
// the file itself.
type Watcher struct {
	path    string
	logger  *logger.Logger
	updates chan *Config
}

// NewWatcher creates a watcher for the given config file path
func NewWatcher(path string, log *logger.Logger) *Watcher {
	return &Watcher{
		path:    path,
		logger:  log.Named("config-watcher"),
		updates: make(chan *Config, 1),
	}
}

// Updates returns the channel on which reloaded configurations are delivered.
// Only configurations that load and validate successfully are delivered;
// broken edits are logged and skipped so the running policy stays intact.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Run watches the config file until the context is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsWatcher.Close()

	dir := filepath.Dir(w.path)
	if err := fsWatcher.Add(dir); err != nil {
		return err
	}

	w.logger.Info("Watching config file for changes", logger.String("path", w.path))

	// Debounce: editors fire several events per save
	var reloadTimer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			cfg, err := Load(w.path)
			if err != nil {
				w.logger.Error("Failed to reload config", logger.Error(err))
				continue
			}
			if err := cfg.Validate(); err != nil {
				w.logger.Error("Reloaded config is invalid, keeping current settings", logger.Error(err))
				continue
			}
			w.logger.Info("Config reloaded", logger.String("path", w.path))

			// Drop a stale pending update in favour of the newest one
			select {
			case <-w.updates:
			default:
			}
			w.updates <- cfg

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Config watcher error", logger.Error(err))
		}
	}
}
