// Package convar mirrors the host runtime's console-variable store: named
// string values settable before or during a session, with typed read
// helpers. Reads resolve on every call; the store adds no caching beyond
// what the underlying lookup provides.
package convar

import (
	"strconv"
	"strings"
	"sync"
)

// Store holds convar values for one process. Defaults come from config,
// runtime overrides win over defaults, and an optional host lookup is
// consulted before either.
type Store struct {
	mu        sync.RWMutex
	overrides map[string]string
	defaults  map[string]string
	lookup    func(name string) (string, bool)
}

// NewStore creates a Store seeded with default values. defaults may be nil.
func NewStore(defaults map[string]string) *Store {
	s := &Store{
		overrides: make(map[string]string),
		defaults:  make(map[string]string, len(defaults)),
	}
	for k, v := range defaults {
		s.defaults[k] = v
	}
	return s
}

// WithLookup installs a host read-through consulted before local values.
// It returns the store for chaining during wiring.
func (s *Store) WithLookup(fn func(name string) (string, bool)) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookup = fn
	return s
}

// Set installs or replaces a runtime override.
func (s *Store) Set(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[name] = value
}

// Get resolves a convar. Resolution order: host lookup, runtime override,
// config default.
func (s *Store) Get(name string) (string, bool) {
	s.mu.RLock()
	lookup := s.lookup
	s.mu.RUnlock()

	if lookup != nil {
		if v, ok := lookup(name); ok {
			return v, true
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.overrides[name]; ok {
		return v, true
	}
	v, ok := s.defaults[name]
	return v, ok
}

// GetString resolves a convar with a fallback value.
func (s *Store) GetString(name, fallback string) string {
	if v, ok := s.Get(name); ok {
		return v
	}
	return fallback
}

// GetBool resolves a convar as a boolean. Unset or unparseable values are
// false; a read failure is treated as "disabled", never propagated.
func (s *Store) GetBool(name string) bool {
	v, ok := s.Get(name)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// GetInt resolves a convar as an integer with a fallback value.
func (s *Store) GetInt(name string, fallback int) int {
	v, ok := s.Get(name)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}
