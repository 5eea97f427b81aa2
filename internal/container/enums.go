package container

import (
	"context"
	"reflect"
	"sync"
)

// Enums is a namespace-scoped dictionary of enum values; one namespace per
// enum type.
type Enums struct {
	id string

	mu    sync.RWMutex
	enums map[string]map[any]any
}

// NewEnums creates an empty enum dictionary container.
func NewEnums(id string) *Enums {
	return &Enums{id: id, enums: map[string]map[any]any{}}
}

// ID implements Container.
func (e *Enums) ID() string { return e.id }

// Scope implements Container.
func (e *Enums) Scope() Scope { return ScopeNamespace }

// Get implements Container.
func (e *Enums) Get(_ context.Context, namespace string, keys []any) (map[any]any, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	values, ok := e.enums[namespace]
	if !ok {
		return nil, &NamespaceError{Container: e.id, Namespace: namespace}
	}

	return pick(values, keys), nil
}

// RegisterEnum adds the values of enum type E under namespace, each keyed by
// key(value). An empty namespace defaults to the name of E.
func RegisterEnum[E any](e *Enums, namespace string, values []E, key func(E) any) string {
	if namespace == "" {
		namespace = reflect.TypeFor[E]().Name()
	}

	dict := make(map[any]any, len(values))

	for _, v := range values {
		if nk, ok := NormalizeKey(key(v)); ok {
			dict[nk] = v
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.enums[namespace] = dict

	return namespace
}
