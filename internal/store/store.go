package store

import (
	"sort"
	"sync"

	"github.com/muurk/tr064-debug/internal/tr064"
)

// Store maps device friendly names to connection profiles
type Store interface {
	// Get returns the profile stored under name
	Get(name string) (tr064.ConnectionProfile, bool)

	// Set stores p under name, overwriting any previous entry
	Set(name string, p tr064.ConnectionProfile) error

	// Remove deletes name and returns the removed profile.
	// Removing an absent name is not an error.
	Remove(name string) (tr064.ConnectionProfile, bool, error)

	// Keys returns all stored names in ascending order
	Keys() []string
}

// MemoryStore is a Store that lives only in memory
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]tr064.ConnectionProfile
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]tr064.ConnectionProfile)}
}

// Get implements Store
func (s *MemoryStore) Get(name string) (tr064.ConnectionProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[name]
	return p, ok
}

// Set implements Store
func (s *MemoryStore) Set(name string, p tr064.ConnectionProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[name] = p
	return nil
}

// Remove implements Store
func (s *MemoryStore) Remove(name string) (tr064.ConnectionProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[name]
	if ok {
		delete(s.profiles, name)
	}
	return p, ok, nil
}

// Keys implements Store
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.profiles)
}

func sortedKeys(m map[string]tr064.ConnectionProfile) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
