package connector

import (
	"fmt"
	"sync"
)

// Factory builds a fresh, uninitialized connector instance.
type Factory func() Connector

// Registry manages the known connector implementations by short name.
// It is safe for concurrent use.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty connector registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a connector factory under its short name.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a connector factory by short name.
func (r *Registry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("connector '%s' is not registered", name)
	}
	return factory, nil
}

// Create builds a new connector instance by short name.
func (r *Registry) Create(name string) (Connector, error) {
	factory, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return factory(), nil
}

// Names returns the short names of all registered connectors.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry is the global default connector registry. Connector
// packages register themselves into it from their init functions.
var DefaultRegistry = NewRegistry()

// Register registers a connector factory with the default registry.
func Register(name string, factory Factory) {
	DefaultRegistry.Register(name, factory)
}

// Create builds a connector instance from the default registry.
func Create(name string) (Connector, error) {
	return DefaultRegistry.Create(name)
}

// Names returns the short names known to the default registry.
func Names() []string {
	return DefaultRegistry.Names()
}
