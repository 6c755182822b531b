// Package envconf wraps the sectioned key/value configuration files that
// hold deployment-specific settings. The store is loaded once at process
// start and treated as read-mostly shared state; Reload re-reads the same
// sources.
package envconf

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/ini.v1"
)

// Store is an in-memory view over the merged environment configuration
// files, keyed by (section, key).
type Store struct {
	loader Loader

	mu   sync.RWMutex
	file *ini.File
}

// New returns a store reading from the given loader. Call Load before use.
func New(loader Loader) *Store {
	return &Store{loader: loader, file: ini.Empty()}
}

// Load reads and parses all sources, replacing the store's contents. Parse
// or read failures leave the previous contents in place.
func (s *Store) Load(ctx context.Context) error {
	payloads, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load env config: %w", err)
	}

	file := ini.Empty()
	if len(payloads) > 0 {
		rest := make([]any, len(payloads)-1)
		for i, p := range payloads[1:] {
			rest[i] = p
		}
		file, err = ini.Load(payloads[0], rest...)
		if err != nil {
			return fmt.Errorf("parse env config: %w", err)
		}
	}

	s.mu.Lock()
	s.file = file
	s.mu.Unlock()
	return nil
}

// Reload re-reads the configured sources.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// HasKey reports whether the section exists and contains the key.
func (s *Store) HasKey(section, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, err := s.file.GetSection(section)
	if err != nil {
		return false
	}
	return sec.HasKey(key)
}

// Get returns the raw string value for (section, key). Missing section or
// key yields ErrNotFound.
func (s *Store) Get(section, key string) (string, error) {
	k, err := s.lookupKey(section, key)
	if err != nil {
		return "", err
	}
	return k.String(), nil
}

// GetBool returns the value for (section, key) parsed as a boolean. A value
// that does not parse yields a *CoerceError.
func (s *Store) GetBool(section, key string) (bool, error) {
	k, err := s.lookupKey(section, key)
	if err != nil {
		return false, err
	}
	v, err := k.Bool()
	if err != nil {
		return false, &CoerceError{Section: section, Key: key, Value: k.String(), Kind: "bool", Err: err}
	}
	return v, nil
}

// GetInt returns the value for (section, key) parsed as an integer. A value
// that does not parse yields a *CoerceError.
func (s *Store) GetInt(section, key string) (int, error) {
	k, err := s.lookupKey(section, key)
	if err != nil {
		return 0, err
	}
	v, err := k.Int()
	if err != nil {
		return 0, &CoerceError{Section: section, Key: key, Value: k.String(), Kind: "int", Err: err}
	}
	return v, nil
}

func (s *Store) lookupKey(section, key string) (*ini.Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, err := s.file.GetSection(section)
	if err != nil {
		return nil, fmt.Errorf("%w: section [%s]", ErrNotFound, section)
	}
	if !sec.HasKey(key) {
		return nil, fmt.Errorf("%w: key %s in section [%s]", ErrNotFound, key, section)
	}
	return sec.Key(key), nil
}

// Sections returns the names of all sections, sorted. The parser's implicit
// default section is omitted.
func (s *Store) Sections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for _, sec := range s.file.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		names = append(names, sec.Name())
	}
	sort.Strings(names)
	return names
}

// SectionValues returns the key/value entries of a section. When mask is
// true, values of secret-looking keys are replaced by a placeholder. Missing
// sections yield ErrNotFound.
func (s *Store) SectionValues(section string, mask bool) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, err := s.file.GetSection(section)
	if err != nil {
		return nil, fmt.Errorf("%w: section [%s]", ErrNotFound, section)
	}
	out := make(map[string]string, len(sec.Keys()))
	for _, k := range sec.Keys() {
		v := k.String()
		if mask && IsSecret(k.Name()) {
			v = maskPlaceholder
		}
		out[k.Name()] = v
	}
	return out, nil
}
