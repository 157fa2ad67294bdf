package siteconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pterm/pterm"
)

// Store owns the process-wide configuration. The cached value is replaced
// wholesale and never mutated, so readers see either the old or the new config.
type Store struct {
	storage Storage
	bundled []byte
	logger  *pterm.Logger

	cached atomic.Pointer[Config]

	mu          sync.Mutex
	subscribers []func(ctx context.Context)
}

// NewStore creates a store backed by storage and seeded from bundled on first run.
func NewStore(storage Storage, bundled []byte, logger *pterm.Logger) *Store {
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &Store{
		storage: storage,
		bundled: bundled,
		logger:  logger,
	}
}

// Get returns the configuration, reading storage (or the bundled seed) on the
// first call after construction or Invalidate.
func (s *Store) Get(ctx context.Context) (*Config, error) {
	if cfg := s.cached.Load(); cfg != nil {
		return cfg, nil
	}

	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored configuration: %w", err)
	}
	if ok {
		cfg, err := Decode(raw)
		if err != nil {
			s.logger.Warn("stored configuration is not usable", s.logger.Args("error", err))
		}
		s.logger.Debug("configuration loaded from storage")
		s.cached.Store(cfg)
		return cfg, nil
	}

	return s.seed(ctx)
}

func (s *Store) seed(ctx context.Context) (*Config, error) {
	s.logger.Debug("seeding configuration from bundled config.json")
	if !json.Valid(s.bundled) {
		return nil, fmt.Errorf("bundled configuration is not valid JSON")
	}
	cfg, err := Decode(s.bundled)
	if err != nil {
		return nil, fmt.Errorf("failed to load bundled configuration: %w", err)
	}
	if err := s.storage.Set(ctx, StorageKey, json.RawMessage(s.bundled)); err != nil {
		s.logger.Warn("failed to persist bundled configuration", s.logger.Args("error", err))
	}
	s.cached.Store(cfg)
	return cfg, nil
}

// Import replaces the configuration with raw without validating it. It reports
// false only when the storage write fails. Subscribers are notified after a
// successful write.
func (s *Store) Import(ctx context.Context, raw json.RawMessage) bool {
	cfg, err := Decode(raw)
	if err != nil {
		s.logger.Warn("imported configuration has an unexpected shape", s.logger.Args("error", err))
	}
	s.cached.Store(cfg)

	if err := s.storage.Set(ctx, StorageKey, raw); err != nil {
		s.logger.Error("failed to save imported configuration", s.logger.Args("error", err))
		return false
	}
	s.logger.Info("imported configuration saved",
		s.logger.Args("domains", len(cfg.Domains), "clusters", len(cfg.Clusters)))

	s.notify(ctx)
	return true
}

// Invalidate drops the cached configuration so the next Get reads storage.
func (s *Store) Invalidate() {
	s.cached.Store(nil)
}

// Subscribe registers fn to run after every successful import.
func (s *Store) Subscribe(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify(ctx context.Context) {
	s.mu.Lock()
	subs := make([]func(context.Context), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ctx)
	}
}
