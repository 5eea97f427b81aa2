package chain

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"field-assembler/internal/analyze"
	"field-assembler/internal/property"
)

// ErrEmptyName is returned when a write names no destination.
var ErrEmptyName = errors.New("write needs a destination name")

// Chain dispatches reads and writes to the first matching handler.
type Chain struct {
	handlers     []Handler
	interceptors []Interceptor
	converter    *property.Converter
	logger       *slog.Logger
}

var _ Accessor = (*Chain)(nil)

// New creates a chain with the default handlers plus any configured extras.
func New(opts ...Option) *Chain {
	c := &Chain{
		handlers:  DefaultHandlers(),
		converter: property.DefaultConverter(),
		logger:    slog.Default().WithGroup("chain"),
	}

	for _, opt := range opts {
		opt(c)
	}

	slices.SortStableFunc(c.handlers, func(a, b Handler) int {
		return cmp.Compare(a.Priority(), b.Priority())
	})

	return c
}

// Handlers returns the handlers in dispatch order.
func (c *Chain) Handlers() []Handler {
	return slices.Clone(c.handlers)
}

// Converter returns the converter applied to written values.
func (c *Chain) Converter() *property.Converter {
	return c.converter
}

// Read resolves name off source. An empty name returns source itself.
// The boolean is false when there is no value: source is absent, the
// sub-field does not exist, or no handler understands the shape.
func (c *Chain) Read(source reflect.Value, name string) (reflect.Value, bool) {
	for _, h := range c.handlers {
		if h.CanRead(source) {
			return h.Read(c, source, name)
		}
	}

	c.logger.Debug("no handler can read value", "type", typeName(source), "name", name)

	return reflect.Value{}, false
}

// Write stores value into sub-field name of target. Absent targets and
// shapes no handler understands are skipped without error.
func (c *Chain) Write(target reflect.Value, name string, value any) error {
	if name == "" {
		return ErrEmptyName
	}

	for _, h := range c.handlers {
		if h.CanWrite(target) {
			return h.Write(c, target, name, value)
		}
	}

	c.logger.Debug("no handler can write value", "type", typeName(target), "name", name)

	return nil
}

// Transfer describes one property mapping applied to one target.
type Transfer struct {
	// Target is the instance being enriched.
	Target reflect.Value
	// Source is the fetched value.
	Source any
	// Key is the lookup key the source was fetched by.
	Key any
	// Field is the operation's own field, written when Reference is empty.
	Field string
	// Resource is the sub-field read from Source; empty reads Source whole.
	Resource string
	// Reference is the sub-field written on Target.
	Reference string
	// Expression optionally overrides the value; ExpressionType coerces its result.
	Expression     string
	ExpressionType string
}

// Destination returns the name written on the target.
func (t *Transfer) Destination() string {
	if t.Reference != "" {
		return t.Reference
	}

	return t.Field
}

// Apply runs one transfer: read, interceptors, write. It reports whether a
// value was written. When the read (or an interceptor) yields no value or a
// nil value, nothing is written.
func (c *Chain) Apply(t *Transfer) (bool, error) {
	var (
		value any
		found bool
	)

	if v, ok := c.Read(reflect.ValueOf(t.Source), t.Resource); ok && !analyze.IsNil(v) && v.CanInterface() {
		value, found = v.Interface(), true
	}

	for _, ic := range c.interceptors {
		var err error

		value, found, err = ic.Intercept(t, value, found)
		if err != nil {
			return false, fmt.Errorf("interceptor: %w", err)
		}
	}

	if !found || value == nil {
		return false, nil
	}

	if err := c.Write(t.Target, t.Destination(), value); err != nil {
		return false, err
	}

	return true, nil
}

func typeName(v reflect.Value) string {
	if !v.IsValid() {
		return "<nil>"
	}

	return v.Type().String()
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	return errors.Join(errs...)
}
