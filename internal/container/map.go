package container

import (
	"context"
	"sync"
)

// Map is a key-scoped registry of key -> object.
type Map struct {
	id string

	mu   sync.RWMutex
	data map[any]any
}

// NewMap creates a key-scoped container populated with entries.
func NewMap[K comparable, V any](id string, entries map[K]V) *Map {
	return &Map{id: id, data: normalizeMap(entries)}
}

// ID implements Container.
func (m *Map) ID() string { return m.id }

// Scope implements Container.
func (m *Map) Scope() Scope { return ScopeKey }

// Put adds or replaces one entry.
func (m *Map) Put(key, value any) {
	nk, ok := NormalizeKey(key)
	if !ok {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[nk] = value
}

// Get implements Container. The namespace is ignored.
func (m *Map) Get(_ context.Context, _ string, keys []any) (map[any]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return pick(m.data, keys), nil
}

// Tables is a namespace-scoped container of static lookup tables.
type Tables struct {
	id string

	mu     sync.RWMutex
	tables map[string]map[any]any
}

// NewTables creates an empty namespace-scoped table container.
func NewTables(id string) *Tables {
	return &Tables{id: id, tables: map[string]map[any]any{}}
}

// ID implements Container.
func (t *Tables) ID() string { return t.id }

// Scope implements Container.
func (t *Tables) Scope() Scope { return ScopeNamespace }

// Namespaces returns the registered table names.
func (t *Tables) Namespaces() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.tables))
	for ns := range t.tables {
		out = append(out, ns)
	}

	return out
}

// Get implements Container.
func (t *Tables) Get(_ context.Context, namespace string, keys []any) (map[any]any, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	data, ok := t.tables[namespace]
	if !ok {
		return nil, &NamespaceError{Container: t.id, Namespace: namespace}
	}

	return pick(data, keys), nil
}

// AddTable registers (or replaces) a table under namespace.
func AddTable[K comparable, V any](t *Tables, namespace string, rows map[K]V) {
	data := normalizeMap(rows)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.tables[namespace] = data
}
