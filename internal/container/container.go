package container

import (
	"context"
	"errors"
	"fmt"

	"field-assembler/internal/common"
)

// Scope tells the orchestrator how lookups against a container are grouped.
type Scope int

const (
	// ScopeKey groups by container only.
	ScopeKey Scope = iota
	// ScopeNamespace groups by container and namespace.
	ScopeNamespace
	// ScopeSelf marks introspective containers that are never fetched.
	ScopeSelf
)

// String returns a human-readable representation of the Scope.
func (s Scope) String() string {
	switch s {
	case ScopeKey:
		return "key"
	case ScopeNamespace:
		return "namespace"
	case ScopeSelf:
		return "self"
	default:
		return common.UnknownStr
	}
}

// ErrNotFetchable is returned by containers that have no fetch phase.
var ErrNotFetchable = errors.New("container is not fetchable")

// ErrUnknownNamespace is returned when a namespaced container has no dataset by that name.
var ErrUnknownNamespace = errors.New("unknown namespace")

// Container is one external data source answering grouped key lookups.
//
// Get receives deduplicated, normalised keys and returns the values found,
// keyed by the same normalised keys. Missing keys are simply absent from the
// result. Implementations must be safe for concurrent use.
type Container interface {
	ID() string
	Scope() Scope
	Get(ctx context.Context, namespace string, keys []any) (map[any]any, error)
}

// Self is the introspective container: the target is its own source.
type Self struct {
	id string
}

// SelfID is the id under which the default introspective container is registered.
const SelfID = "self"

// NewSelf creates an introspective container.
func NewSelf(id string) *Self {
	if id == "" {
		id = SelfID
	}

	return &Self{id: id}
}

// ID implements Container.
func (s *Self) ID() string { return s.id }

// Scope implements Container.
func (s *Self) Scope() Scope { return ScopeSelf }

// Get implements Container; introspective containers are never fetched.
func (s *Self) Get(context.Context, string, []any) (map[any]any, error) {
	return nil, fmt.Errorf("%s: %w", s.id, ErrNotFetchable)
}
