package siteconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	defaultDirMode  = 0755
	defaultFileMode = 0644
)

// Storage is a local key-value store holding opaque JSON values.
type Storage interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}

// FileStorage keeps all entries in a single JSON object file.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// DefaultStoragePath returns <user config dir>/sitenav/storage.json.
func DefaultStoragePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "sitenav", "storage.json"), nil
}

func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, false, err
	}
	v, ok := entries[key]
	if !ok || string(v) == "null" {
		return nil, false, nil
	}
	return v, true, nil
}

func (s *FileStorage) Set(ctx context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// An unreadable file is replaced rather than blocking every write.
	entries, err := s.read()
	if err != nil {
		entries = make(map[string]json.RawMessage)
	}
	entries[key] = value

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	return s.write(data)
}

func (s *FileStorage) read() (map[string]json.RawMessage, error) {
	entries := make(map[string]json.RawMessage)
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse storage %s: %w", s.path, err)
	}
	return entries, nil
}

// write replaces the storage file through a temp file in the same directory so
// readers never see a partial file.
func (s *FileStorage) write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, defaultDirMode); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".storage-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp storage file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpPath, defaultFileMode); err != nil {
		return fmt.Errorf("failed to set storage permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

// MemoryStorage is an in-process Storage. SetErr, when non-nil, is returned by
// every Set call.
type MemoryStorage struct {
	mu      sync.Mutex
	entries map[string]json.RawMessage
	SetErr  error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]json.RawMessage)}
}

func (m *MemoryStorage) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(ctx context.Context, key string, value json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.entries[key] = value
	return nil
}
