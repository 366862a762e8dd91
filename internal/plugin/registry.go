package plugin

import (
	"fmt"
	"slices"
	"sync"
)

// Registry holds the extensions a host can load, by name. Several versions
// of one name may be registered; the last one registered wins.
type Registry struct {
	mu       sync.RWMutex
	versions map[string][]Extension
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{versions: make(map[string][]Extension)}
}

// Register adds ext. Registering the same name and version twice fails.
func (r *Registry) Register(ext Extension) error {
	if ext == nil {
		return fmt.Errorf("cannot register nil extension")
	}
	meta := ext.Metadata()
	if err := meta.Validate(); err != nil {
		return fmt.Errorf("invalid extension metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.versions[meta.Name] {
		if e.Metadata().Version == meta.Version {
			return fmt.Errorf("extension %s@%s already registered", meta.Name, meta.Version)
		}
	}
	r.versions[meta.Name] = append(r.versions[meta.Name], ext)
	return nil
}

// GetLatest returns the last registered version of name.
func (r *Registry) GetLatest(name string) (Extension, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vs := r.versions[name]
	if len(vs) == 0 {
		return nil, fmt.Errorf("extension %s not found", name)
	}
	return vs[len(vs)-1], nil
}

// Has reports whether any version of name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.versions[name]) > 0
}

// Names lists the registered names of type t, sorted.
func (r *Registry) Names(t PluginType) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for name, vs := range r.versions {
		if vs[len(vs)-1].Metadata().Type == t {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

var globalRegistry = NewRegistry()

// DefaultRegistry returns the registry extensions add themselves to from init.
func DefaultRegistry() *Registry { return globalRegistry }

// Register adds ext to the default registry.
func Register(ext Extension) error { return globalRegistry.Register(ext) }
