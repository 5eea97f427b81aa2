package container

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"field-assembler/internal/property"
)

// LoaderFunc loads the values for a batch of normalised keys.
type LoaderFunc func(ctx context.Context, keys []any) (map[any]any, error)

// Loaders is a namespace-scoped container dispatching each namespace to a
// registered batch-loading function.
type Loaders struct {
	id string

	mu      sync.RWMutex
	loaders map[string]LoaderFunc
}

// NewLoaders creates an empty loader container.
func NewLoaders(id string) *Loaders {
	return &Loaders{id: id, loaders: map[string]LoaderFunc{}}
}

// ID implements Container.
func (l *Loaders) ID() string { return l.id }

// Scope implements Container.
func (l *Loaders) Scope() Scope { return ScopeNamespace }

// Register binds fn to namespace, replacing any previous binding.
func (l *Loaders) Register(namespace string, fn LoaderFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.loaders[namespace] = fn
}

// Get implements Container.
func (l *Loaders) Get(ctx context.Context, namespace string, keys []any) (map[any]any, error) {
	l.mu.RLock()
	fn, ok := l.loaders[namespace]
	l.mu.RUnlock()

	if !ok {
		return nil, &NamespaceError{Container: l.id, Namespace: namespace}
	}

	res, err := fn(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("container %q: namespace %q: %w", l.id, namespace, err)
	}

	return normalizeMap(res), nil
}

// Loader adapts a typed batch function into a LoaderFunc. Keys that cannot be
// converted to K are skipped.
func Loader[K comparable, V any](fn func(ctx context.Context, keys []K) (map[K]V, error)) LoaderFunc {
	kt := reflect.TypeFor[K]()

	return func(ctx context.Context, keys []any) (map[any]any, error) {
		typed := make([]K, 0, len(keys))

		for _, k := range keys {
			cv, err := property.Convert(k, kt)
			if err != nil {
				continue
			}

			typed = append(typed, cv.Interface().(K))
		}

		if len(typed) == 0 {
			return map[any]any{}, nil
		}

		res, err := fn(ctx, typed)
		if err != nil {
			return nil, err
		}

		return normalizeMap(res), nil
	}
}
