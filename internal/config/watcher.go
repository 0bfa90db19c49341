package config

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settingsDebounce coalesces the write bursts editors produce when saving.
const settingsDebounce = 300 * time.Millisecond

// SettingsWatcher watches ~/.tinibar/settings.yaml and invokes a callback
// after each (debounced) change.
type SettingsWatcher struct {
	fsWatcher *fsnotify.Watcher
	onChange  func()
	done      chan struct{}

	debounceMu sync.Mutex
	debounce   *time.Timer
}

// WatchSettings starts watching the settings file. The callback runs on the
// watcher's goroutine after each settled burst of changes.
func WatchSettings(onChange func()) (*SettingsWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors replace files on save and
	// fsnotify loses a watch on the old inode.
	dir, err := GlobalDir()
	if err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}
	if err := EnsureGlobalDir(); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}
	if err := fsWatcher.Add(dir); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}

	w := &SettingsWatcher{
		fsWatcher: fsWatcher,
		onChange:  onChange,
		done:      make(chan struct{}),
	}
	go w.processEvents()

	return w, nil
}

// Stop stops the watcher.
func (w *SettingsWatcher) Stop() {
	close(w.done)
	_ = w.fsWatcher.Close()
}

func (w *SettingsWatcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != SettingsFileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleChange()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("Settings watcher error: %v", err)
		}
	}
}

func (w *SettingsWatcher) scheduleChange() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(settingsDebounce, func() {
		select {
		case <-w.done:
		default:
			w.onChange()
		}
	})
}
