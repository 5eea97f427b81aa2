package analyze

import (
	"reflect"
	"sync"
)

// Registry holds the Go types that declared type names may refer to.
type Registry struct {
	mu    sync.RWMutex
	types []Type
}

// NewRegistry creates a registry holding types.
func NewRegistry(types ...Type) *Registry {
	r := &Registry{}
	r.Register(types...)

	return r
}

// Register adds types; a type registered twice is kept once.
func (r *Registry) Register(types ...Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range types {
		if !r.has(t.ID) {
			r.types = append(r.types, t)
		}
	}
}

// RegisterValues registers the (dereferenced) types of the given values.
func (r *Registry) RegisterValues(values ...any) {
	types := make([]Type, 0, len(values))
	for _, v := range values {
		if v != nil {
			types = append(types, TypeOf(reflect.TypeOf(v)))
		}
	}

	r.Register(types...)
}

func (r *Registry) has(id TypeID) bool {
	for _, t := range r.types {
		if t.ID == id {
			return true
		}
	}

	return false
}

// Lookup finds the type a declared name refers to. Exact full ids win over
// alias-qualified names, which win over bare names; registration order breaks
// remaining ties.
func (r *Registry) Lookup(name string) (Type, bool) {
	if r == nil {
		return Type{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, form := range []func(TypeID) string{TypeID.String, TypeID.Short, func(id TypeID) string { return id.Name }} {
		for _, t := range r.types {
			if form(t.ID) == name {
				return t, true
			}
		}
	}

	return Type{}, false
}

// Names returns the full ids of the registered types, in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.types))
	for i, t := range r.types {
		out[i] = t.ID.String()
	}

	return out
}
