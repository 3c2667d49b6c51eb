package store

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/tr064-debug/internal/config"
	"github.com/muurk/tr064-debug/internal/logging"
	"github.com/muurk/tr064-debug/internal/tr064"
)

const fileVersion = 1

// document is the on-disk layout of the credential file
type document struct {
	Version int                                `yaml:"version"`
	Devices map[string]tr064.ConnectionProfile `yaml:"devices"`
}

// FileStore is a Store persisted as a YAML file. Every mutation rewrites
// the whole file atomically.
type FileStore struct {
	path string

	mu       sync.RWMutex
	profiles map[string]tr064.ConnectionProfile
}

// Open loads the credential file at path. A missing file is an empty store.
func Open(path string) (*FileStore, error) {
	s := &FileStore{
		path:     path,
		profiles: make(map[string]tr064.ConnectionProfile),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logging.Debug("Credential store not found, starting empty", zap.String("path", path))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential store: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse credential store %s: %w", path, err)
	}
	if doc.Version != 0 && doc.Version != fileVersion {
		return nil, fmt.Errorf("unsupported credential store version: %d (expected %d)", doc.Version, fileVersion)
	}
	for name, p := range doc.Devices {
		s.profiles[name] = p
	}

	logging.Debug("Credential store loaded",
		zap.String("path", path),
		zap.Int("devices", len(s.profiles)),
	)
	return s, nil
}

// Path returns the location of the credential file
func (s *FileStore) Path() string {
	return s.path
}

// Get implements Store
func (s *FileStore) Get(name string) (tr064.ConnectionProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[name]
	return p, ok
}

// Set implements Store
func (s *FileStore) Set(name string, p tr064.ConnectionProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.profiles[name]
	s.profiles[name] = p
	if err := s.flush(); err != nil {
		if existed {
			s.profiles[name] = prev
		} else {
			delete(s.profiles, name)
		}
		return err
	}
	return nil
}

// Remove implements Store
func (s *FileStore) Remove(name string) (tr064.ConnectionProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[name]
	if !ok {
		return tr064.ConnectionProfile{}, false, nil
	}
	delete(s.profiles, name)
	if err := s.flush(); err != nil {
		s.profiles[name] = p
		return tr064.ConnectionProfile{}, false, err
	}
	return p, true, nil
}

// Keys implements Store
func (s *FileStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.profiles)
}

// flush writes the store to disk. Callers hold the write lock.
func (s *FileStore) flush() error {
	doc := document{Version: fileVersion, Devices: s.profiles}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal credential store: %w", err)
	}

	header := []byte(`# tr064-debug credential store
# Passwords are stored in PLAINTEXT. Protect this file accordingly.
# Remove entries with "tr064-debug remove <name>".

`)
	if err := config.WriteFileAtomic(s.path, append(header, data...), 0600); err != nil {
		return fmt.Errorf("failed to write credential store: %w", err)
	}

	logging.Debug("Credential store written",
		zap.String("path", s.path),
		zap.Int("devices", len(s.profiles)),
	)
	return nil
}
