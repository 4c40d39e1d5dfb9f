package server

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/odyssey/cronctl/internal/config"
)

// reloadDebounce is the delay after the last filesystem event before
// reloading, batching rapid successive writes (editors often write a config
// file several times in quick succession).
const reloadDebounce = 500 * time.Millisecond

// runConfigWatcherLoop watches config.yml and reloads the schedule registry
// and hook table when it changes, so edits take effect without a restart.
func (s *Server) runConfigWatcherLoop(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Printf("Config watcher: failed to create watcher: %v", err)
		return
	}
	defer watcher.Close()

	configFilepath := config.GetConfigFilepath(s.cronctlDirpath)
	if err := watcher.Add(configFilepath); err != nil {
		s.logger.Printf("Config watcher: failed to watch %s: %v", configFilepath, err)
		return
	}

	var debounceTimer *time.Timer
	debounced := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				select {
				case debounced <- struct{}{}:
				default:
				}
			})
			// Editors that replace the file break the watch; re-add.
			if event.Op&fsnotify.Rename != 0 {
				watcher.Add(configFilepath)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Printf("Config watcher: error: %v", err)

		case <-debounced:
			if err := s.reloadConfig(); err != nil {
				s.logger.Printf("Config watcher: reload failed, keeping previous config: %v", err)
				continue
			}
			s.logger.Println("Config watcher: config reloaded")
		}
	}
}
