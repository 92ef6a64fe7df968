package flags

import (
	"sync"
	"sync/atomic"
)

// Store holds the effective configuration. Writers (flag sources, the
// override panel) may run on any goroutine; readers get an atomically
// replaced snapshot, never a half-written one.
type Store struct {
	mu        sync.Mutex
	remote    Config
	overrides map[string]any

	effective atomic.Pointer[Config]
	version   atomic.Uint64
}

// NewStore creates a store seeded with the initial snapshot.
func NewStore(initial Config) *Store {
	s := &Store{remote: initial.Normalize(), overrides: map[string]any{}}
	s.publishLocked()
	return s
}

// Snapshot returns the current effective configuration.
func (s *Store) Snapshot() Config {
	if s == nil {
		return Defaults()
	}
	if cfg := s.effective.Load(); cfg != nil {
		return *cfg
	}
	return Defaults()
}

// Version increases on every published change.
func (s *Store) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version.Load()
}

// Remote returns the last value received from a flag source, ignoring
// overrides.
func (s *Store) Remote() Config {
	if s == nil {
		return Defaults()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remote
}

// Replace swaps in a new remote configuration.
func (s *Store) Replace(cfg Config) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote = cfg.Normalize()
	s.publishLocked()
}

// Override pins a single flag locally until ResetOverrides.
func (s *Store) Override(key string, value any) error {
	if s == nil {
		return nil
	}
	check := Defaults()
	if err := check.Set(key, value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[canonicalKey(key)] = value
	s.publishLocked()
	return nil
}

// Overrides returns a copy of the active local overrides.
func (s *Store) Overrides() map[string]any {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.overrides))
	for k, v := range s.overrides {
		out[k] = v
	}
	return out
}

// ResetOverrides drops every local override.
func (s *Store) ResetOverrides() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.overrides) == 0 {
		return
	}
	s.overrides = map[string]any{}
	s.publishLocked()
}

func (s *Store) publishLocked() {
	cfg := s.remote
	for key, value := range s.overrides {
		_ = cfg.Set(key, value)
	}
	cfg = cfg.Normalize()
	s.effective.Store(&cfg)
	s.version.Add(1)
}
