package container

import "fmt"

// NamespaceError reports a lookup in a namespace the container does not serve.
type NamespaceError struct {
	Container string
	Namespace string
}

func (e *NamespaceError) Error() string {
	return fmt.Sprintf("container %q: namespace %q: %v", e.Container, e.Namespace, ErrUnknownNamespace)
}

// Unwrap returns ErrUnknownNamespace.
func (e *NamespaceError) Unwrap() error {
	return ErrUnknownNamespace
}
