package terminology

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a terminology on demand.
type Factory func() (*Terminology, error)

// Registry maps names to terminology factories. Built terminologies are
// cached, so each factory runs at most once per registry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	built     map[string]*Terminology
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		built:     make(map[string]*Terminology),
	}
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
	delete(r.built, name)
}

// Lookup returns the named terminology, building it on first use.
func (r *Registry) Lookup(name string) (*Terminology, error) {
	r.mu.RLock()
	if t, ok := r.built[name]; ok {
		r.mu.RUnlock()
		return t, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.built[name]; ok {
		return t, nil
	}
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("no terminology registered as %q", name)
	}
	t, err := f()
	if err != nil {
		return nil, fmt.Errorf("build terminology %q: %w", name, err)
	}
	r.built[name] = t
	return t, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Global registry instance and initialization guard.
var (
	globalRegistry *Registry
	globalOnce     sync.Once
)

// Global returns the process-wide registry used by built-in vocabularies.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Register adds a factory to the global registry.
func Register(name string, f Factory) {
	Global().Register(name, f)
}

// Lookup returns a terminology from the global registry.
func Lookup(name string) (*Terminology, error) {
	return Global().Lookup(name)
}

// RegisteredNames returns the names in the global registry.
func RegisteredNames() []string {
	return Global().Names()
}
