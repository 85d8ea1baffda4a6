package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a key has neither a stored value nor a
// registered default.
var ErrNotFound = errors.New("config: key not found")

// Store is a write-through key/value store. Every SetItem rewrites the
// backing file, so the on-disk state always matches memory.
type Store struct {
	mu       sync.RWMutex
	path     string
	values   map[string]string
	defaults map[string]string
}

// Open loads the store from path. A missing file is not an error; the
// store starts empty and serves defaults. An empty path keeps the store
// in memory only.
func Open(path string) (*Store, error) {
	s := &Store{
		path:     path,
		values:   make(map[string]string),
		defaults: Defaults(),
	}

	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err = yaml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}

	return s, nil
}

// GetItem returns the stored value for key, falling back to the default.
func (s *Store) GetItem(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key]; ok {
		return v, nil
	}
	if v, ok := s.defaults[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, key)
}

// GetItemDefault returns the stored value for key, or def when the key has
// neither a value nor a registered default.
func (s *Store) GetItemDefault(key, def string) string {
	v, err := s.GetItem(key)
	if err != nil {
		return def
	}
	return v
}

// SetItem stores value under key and persists the store.
func (s *Store) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.save()
}

// save writes the full value map to the backing file. Callers must hold
// the write lock.
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}

	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	// Write-then-rename so a crash mid-write never truncates settings.
	tmp := s.path + ".tmp"
	if err = os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("config: rename %s: %w", tmp, err)
	}
	return nil
}
