package commands

import "sync/atomic"

// Store publishes registries to concurrent readers. Writers replace the
// whole registry; readers always see a complete one.
type Store struct {
	current atomic.Pointer[Registry]
}

// NewStore creates a store holding reg, which may be nil.
func NewStore(reg *Registry) *Store {
	s := &Store{}
	if reg != nil {
		s.current.Store(reg)
	}
	return s
}

// Load returns the current registry, or nil before the first publish.
func (s *Store) Load() *Registry {
	return s.current.Load()
}

// Publish replaces the current registry and returns the previous one.
func (s *Store) Publish(reg *Registry) *Registry {
	return s.current.Swap(reg)
}

// Resolve looks name up in the current registry.
func (s *Store) Resolve(name string) (*Command, bool) {
	return s.Load().Resolve(name)
}
