package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileStore persists one JSON file per key under a base directory.
// "months/2025-08" becomes <base>/months/2025-08.json. Writes go through a
// temporary file and a rename, so a crashed write never leaves a truncated
// document behind.
type FileStore struct {
	base string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates the base directory if needed and returns a store.
func NewFileStore(base string) (*FileStore, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &FileStore{
		base:  base,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// lock returns the mutex serializing access to one key.
func (s *FileStore) lock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}

	return l
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.base, filepath.FromSlash(key)+".json")
}

func (s *FileStore) Read(key string, v any) error {
	raw, err := s.ReadRaw(key)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, v)
}

func (s *FileStore) ReadRaw(key string) ([]byte, error) {
	if !validKey(key) {
		return nil, ErrInvalidKey
	}

	l := s.lock(key)
	l.Lock()
	defer l.Unlock()

	raw, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return raw, nil
}

func (s *FileStore) Write(key string, v any) error {
	if !validKey(key) {
		return ErrInvalidKey
	}

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	l := s.lock(key)
	l.Lock()
	defer l.Unlock()

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", key, err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}

	log.Debug().Str("key", key).Int("bytes", len(raw)).Msg("document written")
	return nil
}

func (s *FileStore) Delete(key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}

	l := s.lock(key)
	l.Lock()
	defer l.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

func (s *FileStore) List(prefix string) ([]string, error) {
	dir := filepath.Join(s.base, filepath.FromSlash(prefix))
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		keys = append(keys, prefix+"/"+strings.TrimSuffix(name, ".json"))
	}

	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Exists(key string) bool {
	if !validKey(key) {
		return false
	}

	_, err := os.Stat(s.path(key))
	return err == nil
}
