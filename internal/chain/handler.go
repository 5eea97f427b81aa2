package chain

import (
	"reflect"

	"field-assembler/internal/analyze"
	"field-assembler/internal/property"
)

// Accessor is the abstract chain interface handlers recurse through.
type Accessor interface {
	Read(source reflect.Value, name string) (reflect.Value, bool)
	Write(target reflect.Value, name string, value any) error
	Converter() *property.Converter
}

// Handler reads from and writes to one shape of value.
type Handler interface {
	Name() string
	Priority() int
	CanRead(source reflect.Value) bool
	Read(a Accessor, source reflect.Value, name string) (reflect.Value, bool)
	CanWrite(target reflect.Value) bool
	Write(a Accessor, target reflect.Value, name string, value any) error
}

// Priorities of the default handlers.
const (
	PriorityNull       = -1000
	PriorityMap        = 100
	PriorityCollection = 200
	PriorityArray      = 300
	PriorityStruct     = 400
	PriorityScalar     = 1000
)

// DefaultHandlers returns the stock shape handlers.
func DefaultHandlers() []Handler {
	return []Handler{
		NullHandler{},
		MapHandler{},
		CollectionHandler{},
		ArrayHandler{},
		StructHandler{},
		ScalarHandler{},
	}
}

// NullHandler short-circuits absent values: reads yield no value, writes are
// skipped.
type NullHandler struct{}

func (NullHandler) Name() string                  { return "null" }
func (NullHandler) Priority() int                 { return PriorityNull }
func (NullHandler) CanRead(v reflect.Value) bool  { return analyze.ShapeOf(v) == analyze.ShapeNil }
func (NullHandler) CanWrite(v reflect.Value) bool { return analyze.ShapeOf(v) == analyze.ShapeNil }

func (NullHandler) Read(Accessor, reflect.Value, string) (reflect.Value, bool) {
	return reflect.Value{}, false
}

func (NullHandler) Write(Accessor, reflect.Value, string, any) error {
	return nil
}

// MapHandler reads and writes map entries keyed by name.
type MapHandler struct{}

func (MapHandler) Name() string                  { return "map" }
func (MapHandler) Priority() int                 { return PriorityMap }
func (MapHandler) CanRead(v reflect.Value) bool  { return analyze.ShapeOf(v) == analyze.ShapeMap }
func (MapHandler) CanWrite(v reflect.Value) bool { return analyze.ShapeOf(v) == analyze.ShapeMap }

func (MapHandler) Read(a Accessor, source reflect.Value, name string) (reflect.Value, bool) {
	if name == "" {
		return source, true
	}

	m := analyze.Indirect(source)

	key, err := a.Converter().Convert(name, m.Type().Key())
	if err != nil {
		return reflect.Value{}, false
	}

	v := m.MapIndex(key)
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	return v, true
}

func (MapHandler) Write(a Accessor, target reflect.Value, name string, value any) error {
	m := analyze.Indirect(target)

	key, err := a.Converter().Convert(name, m.Type().Key())
	if err != nil {
		return err
	}

	v, err := a.Converter().Convert(value, m.Type().Elem())
	if err != nil {
		return err
	}

	m.SetMapIndex(key, v)

	return nil
}

// CollectionHandler maps reads and writes over every slice element.
type CollectionHandler struct{}

func (CollectionHandler) Name() string  { return "collection" }
func (CollectionHandler) Priority() int { return PriorityCollection }
func (CollectionHandler) CanRead(v reflect.Value) bool {
	return analyze.ShapeOf(v) == analyze.ShapeSlice
}
func (CollectionHandler) CanWrite(v reflect.Value) bool {
	return analyze.ShapeOf(v) == analyze.ShapeSlice
}

func (CollectionHandler) Read(a Accessor, source reflect.Value, name string) (reflect.Value, bool) {
	return readElements(a, source, name)
}

func (CollectionHandler) Write(a Accessor, target reflect.Value, name string, value any) error {
	return writeElements(a, target, name, value)
}

// ArrayHandler maps reads and writes over every array element.
type ArrayHandler struct{}

func (ArrayHandler) Name() string                  { return "array" }
func (ArrayHandler) Priority() int                 { return PriorityArray }
func (ArrayHandler) CanRead(v reflect.Value) bool  { return analyze.ShapeOf(v) == analyze.ShapeArray }
func (ArrayHandler) CanWrite(v reflect.Value) bool { return analyze.ShapeOf(v) == analyze.ShapeArray }

func (ArrayHandler) Read(a Accessor, source reflect.Value, name string) (reflect.Value, bool) {
	return readElements(a, source, name)
}

func (ArrayHandler) Write(a Accessor, target reflect.Value, name string, value any) error {
	return writeElements(a, target, name, value)
}

// StructHandler reads and writes struct fields through the property accessor.
type StructHandler struct{}

func (StructHandler) Name() string                  { return "struct" }
func (StructHandler) Priority() int                 { return PriorityStruct }
func (StructHandler) CanRead(v reflect.Value) bool  { return analyze.ShapeOf(v) == analyze.ShapeStruct }
func (StructHandler) CanWrite(v reflect.Value) bool { return analyze.ShapeOf(v) == analyze.ShapeStruct }

func (StructHandler) Read(_ Accessor, source reflect.Value, name string) (reflect.Value, bool) {
	if name == "" {
		return source, true
	}

	v, ok := property.Get(source, name)
	if !ok || !v.IsValid() {
		return reflect.Value{}, false
	}

	return v, true
}

func (StructHandler) Write(a Accessor, target reflect.Value, name string, value any) error {
	return a.Converter().Set(target, name, value)
}

// ScalarHandler passes scalar values through whole; scalars have no sub-fields.
type ScalarHandler struct{}

func (ScalarHandler) Name() string                { return "scalar" }
func (ScalarHandler) Priority() int               { return PriorityScalar }
func (ScalarHandler) CanWrite(reflect.Value) bool { return false }

func (ScalarHandler) CanRead(v reflect.Value) bool {
	if analyze.ShapeOf(v) != analyze.ShapeScalar {
		return false
	}

	switch analyze.Indirect(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	default:
		return true
	}
}

func (ScalarHandler) Read(_ Accessor, source reflect.Value, name string) (reflect.Value, bool) {
	if name == "" {
		return source, true
	}

	return reflect.Value{}, false
}

func (ScalarHandler) Write(Accessor, reflect.Value, string, any) error {
	return nil
}

func readElements(a Accessor, source reflect.Value, name string) (reflect.Value, bool) {
	if name == "" {
		return source, true
	}

	s := analyze.Indirect(source)
	out := make([]any, 0, s.Len())

	for i := range s.Len() {
		v, ok := a.Read(s.Index(i), name)
		if !ok || !v.CanInterface() {
			continue
		}

		out = append(out, v.Interface())
	}

	return reflect.ValueOf(out), true
}

func writeElements(a Accessor, target reflect.Value, name string, value any) error {
	s := analyze.Indirect(target)

	var errs []error

	for i := range s.Len() {
		if err := a.Write(s.Index(i), name, value); err != nil {
			errs = append(errs, err)
		}
	}

	return joinErrors(errs)
}
