// Package localstore persists the portal's per-instance state as simple
// string key/value pairs in a JSON file. Keys are read on load and written
// through on change. A watcher surfaces writes made by other portal
// instances sharing the same file.
package localstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Store is a file-backed string key/value store.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// Open loads the store from path, creating an empty store when the file does
// not exist yet.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	s := &Store{path: path, values: map[string]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			// A corrupt state file is not fatal; the portal starts from
			// defaults and overwrites it on the next write.
			slog.Warn("State file is corrupt, starting from defaults", "path", path, "error", err)
			s.values = map[string]string{}
		}
	}
	return s, nil
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores the value and writes the file through atomically.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flushLocked()
}

// flushLocked writes the state file via a temp file and rename so a
// concurrent reader never observes a partial write. Caller must hold s.mu.
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// reload re-reads the file and returns the keys whose values changed.
func (s *Store) reload() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	fresh := map[string]string{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &fresh); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var changed []string
	for k, v := range fresh {
		if old, ok := s.values[k]; !ok || old != v {
			changed = append(changed, k)
		}
	}
	for k := range s.values {
		if _, ok := fresh[k]; !ok {
			changed = append(changed, k)
		}
	}
	s.values = fresh
	return changed, nil
}

// Watch emits the names of keys changed by external writes to the state
// file until the stop channel is closed. The returned channel is closed on
// teardown.
func (s *Store) Watch(stop <-chan struct{}) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create state watcher: %w", err)
	}
	// Watch the directory: atomic rename-replace writes would otherwise
	// detach a watch on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch state directory: %w", err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer func() {
			if err := watcher.Close(); err != nil {
				slog.Warn("Failed to close state watcher", "error", err)
			}
		}()
		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.path || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				changed, err := s.reload()
				if err != nil {
					slog.Warn("Failed to reload state file", "error", err)
					continue
				}
				for _, key := range changed {
					select {
					case out <- key:
					case <-stop:
						return
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("State watcher error", "error", err)
			}
		}
	}()
	return out, nil
}
