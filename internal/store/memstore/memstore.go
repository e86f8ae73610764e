// Package memstore is an in-memory implementation of image.Store, used
// by the REPL when no database is configured and by tests. It is
// last-write-wins per (class, selector), guarded by a single mutex, the
// same single-writer discipline as the SQLite-backed store.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/kristofer/son/pkg/image"
)

type methodKey struct {
	class    string
	selector string
}

// Store is a single in-memory image.Store. The zero value is usable.
type Store struct {
	mu        sync.Mutex
	base      map[string]any
	methods   map[methodKey]image.StoredMethod
	classSeen map[string]bool
}

// New returns an empty Store seeded with base, a convenience for
// callers (such as tests) that want to pre-populate top-level bindings.
func New(base map[string]any) *Store {
	if base == nil {
		base = make(map[string]any)
	}
	return &Store{
		base:      base,
		methods:   make(map[methodKey]image.StoredMethod),
		classSeen: make(map[string]bool),
	}
}

// LoadBaseEnvironment returns a shallow copy of the seeded base blob.
func (s *Store) LoadBaseEnvironment(_ context.Context) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.base))
	for k, v := range s.base {
		out[k] = v
	}
	return out, nil
}

// LoadMethods returns every persisted method.
func (s *Store) LoadMethods(_ context.Context) ([]image.StoredMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]image.StoredMethod, 0, len(s.methods))
	for _, m := range s.methods {
		out = append(out, m)
	}
	return out, nil
}

// SaveMethod inserts or replaces the (ClassName, Selector) entry.
func (s *Store) SaveMethod(_ context.Context, m image.StoredMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.methods == nil {
		s.methods = make(map[methodKey]image.StoredMethod)
	}
	if s.classSeen == nil {
		s.classSeen = make(map[string]bool)
	}
	s.classSeen[m.ClassName] = true
	s.methods[methodKey{m.ClassName, m.Selector}] = m
	return nil
}

// ListClasses returns every class name that has had at least one method
// saved, sorted.
func (s *Store) ListClasses(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.classSeen))
	for name := range s.classSeen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListMethodSelectors returns the selectors saved for className, sorted.
func (s *Store) ListMethodSelectors(_ context.Context, className string) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.classSeen[className] {
		return nil, false, nil
	}
	var selectors []string
	for k := range s.methods {
		if k.class == className {
			selectors = append(selectors, k.selector)
		}
	}
	sort.Strings(selectors)
	return selectors, true, nil
}

// GetMethod returns one persisted method.
func (s *Store) GetMethod(_ context.Context, className, selector string) (image.StoredMethod, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.methods[methodKey{className, selector}]
	return m, ok, nil
}
