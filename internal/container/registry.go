package container

import (
	"fmt"
	"slices"
	"sync"
)

// Registry is a thread-safe id -> Container locator.
type Registry struct {
	mu         sync.RWMutex
	containers map[string]Container
}

// NewRegistry creates a registry holding cs. Later duplicates replace earlier ones.
func NewRegistry(cs ...Container) *Registry {
	r := &Registry{containers: make(map[string]Container, len(cs))}
	for _, c := range cs {
		r.containers[c.ID()] = c
	}

	return r
}

// Register adds c, failing if its id is already taken.
func (r *Registry) Register(c Container) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.containers[c.ID()]; ok {
		return fmt.Errorf("container %q already registered", c.ID())
	}

	r.containers[c.ID()] = c

	return nil
}

// Lookup returns the container registered under id.
func (r *Registry) Lookup(id string) (Container, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.containers[id]

	return c, ok
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.containers))
	for id := range r.containers {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}
