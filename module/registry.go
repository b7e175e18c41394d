package module

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrNotRegistered is returned by Registry.New for unknown identifiers.
var ErrNotRegistered = errors.New("module: identifier not registered")

var errDuplicateModule = errors.New("module: duplicate identifier")

// Factory builds a fresh module instance.
type Factory func() (Module, error)

// Registry maps module identifiers to factories. It is safe for concurrent
// use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under id.
func (r *Registry) Register(id string, factory Factory) error {
	if id == "" {
		return errors.New("module: empty identifier")
	}

	if factory == nil {
		return errors.New("module: nil factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("%w: %s", errDuplicateModule, id)
	}

	r.factories[id] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(id string, factory Factory) {
	err := r.Register(id, factory)
	if err != nil {
		panic("module registry: " + err.Error())
	}
}

// New instantiates the module registered under id.
func (r *Registry) New(id string) (Module, error) {
	r.mu.RLock()
	factory := r.factories[id]
	r.mu.RUnlock()

	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, id)
	}

	m, err := factory()
	if err != nil {
		return nil, fmt.Errorf("module: build %q: %w", id, err)
	}

	return m, nil
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}
