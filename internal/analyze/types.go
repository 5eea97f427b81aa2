package analyze

import (
	"reflect"

	"field-assembler/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "field-assembler/examples/store"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the TypeID qualified by the package alias only ("store.Order").
func (t TypeID) Short() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return common.PkgAlias(t.PkgPath) + "." + t.Name
}

// IsZero reports whether the TypeID is unset.
func (t TypeID) IsZero() bool {
	return t.PkgPath == "" && t.Name == ""
}

// TypeIDOf returns the identity of a Go type. Pointers are dereferenced so that
// T and *T share rules; unnamed types use their literal form as Name.
func TypeIDOf(t reflect.Type) TypeID {
	t = Deref(t)
	if t == nil {
		return TypeID{}
	}

	if t.Name() == "" {
		return TypeID{Name: t.String()}
	}

	return TypeID{PkgPath: t.PkgPath(), Name: t.Name()}
}

// Type is an enrichable type: either a Go type, or a logical type that exists
// only by name in rule declarations (used for map-shaped documents).
type Type struct {
	ID TypeID
	Go reflect.Type // nil for logical types
}

// TypeOf builds a Type from a Go type.
func TypeOf(t reflect.Type) Type {
	t = Deref(t)
	return Type{ID: TypeIDOf(t), Go: t}
}

// TypeFor builds a Type for the type parameter.
func TypeFor[T any]() Type {
	return TypeOf(reflect.TypeFor[T]())
}

// Named builds a logical Type.
func Named(name string) Type {
	return Type{ID: TypeID{Name: name}}
}

// String returns the type identity string.
func (t Type) String() string {
	return t.ID.String()
}

// IsStruct reports whether the type is a known Go struct type. Field-level
// checks are only possible for those.
func (t Type) IsStruct() bool {
	return t.Go != nil && t.Go.Kind() == reflect.Struct
}

// Deref strips pointer indirections from t.
func Deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}

// Indirect unwraps interfaces and pointers until a concrete, non-pointer value
// or a nil is reached.
func Indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr) {
		if v.IsNil() {
			return v
		}

		v = v.Elem()
	}

	return v
}

// IsNil reports whether v is absent: invalid, or a nil pointer, interface, map or slice.
func IsNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// Matches reports whether a declared type name refers to this identity:
// the full id, the alias-qualified form or the bare name.
func (t TypeID) Matches(name string) bool {
	return name != "" && (name == t.String() || name == t.Short() || name == t.Name)
}

// ElemType strips pointers, slices and arrays from t until a non-collection
// type is reached. Byte slices are kept whole.
func ElemType(t reflect.Type) reflect.Type {
	t = Deref(t)
	for t != nil && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return t
		}

		t = Deref(t.Elem())
	}

	return t
}
