package assemble

import (
	"reflect"

	"field-assembler/internal/analyze"
)

// Disassembler expands a nested field value into the instances to enrich.
type Disassembler interface {
	ID() string
	Disassemble(v reflect.Value) []any
}

// Flatten descends through nested slices and arrays until non-collection
// elements are reached. Struct elements held by value are yielded as
// pointers when addressable, so writes reach the original storage. Maps are
// leaves: a map is itself a nested document.
type Flatten struct{}

// ID implements Disassembler.
func (Flatten) ID() string { return FlattenID }

// Disassemble implements Disassembler.
func (Flatten) Disassemble(v reflect.Value) []any {
	var out []any

	flatten(v, &out)

	return out
}

func flatten(v reflect.Value, out *[]any) {
	if analyze.IsNil(v) {
		return
	}

	switch analyze.ShapeOf(v) {
	case analyze.ShapeSlice, analyze.ShapeArray:
		s := analyze.Indirect(v)
		for i := range s.Len() {
			flatten(s.Index(i), out)
		}
	case analyze.ShapeNil:
	default:
		if leaf, ok := leafOf(v); ok {
			*out = append(*out, leaf)
		}
	}
}

func leafOf(v reflect.Value) (any, bool) {
	for v.Kind() == reflect.Interface {
		v = v.Elem()
	}

	if v.Kind() == reflect.Struct && v.CanAddr() {
		v = v.Addr()
	}

	if !v.CanInterface() {
		return nil, false
	}

	return v.Interface(), true
}
