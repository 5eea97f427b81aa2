package analyze

import (
	"reflect"

	"field-assembler/internal/common"
)

// Shape classifies a runtime value for the accessor chain.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeNil           // absent value
	ShapeScalar        // strings, numbers, bools, []byte, funcs, ...
	ShapeStruct        // struct or pointer to struct
	ShapeMap           // associative map
	ShapeSlice         // ordered collection
	ShapeArray         // fixed-size array
)

// String returns a human-readable representation of the Shape.
func (s Shape) String() string {
	switch s {
	case ShapeNil:
		return "nil"
	case ShapeScalar:
		return "scalar"
	case ShapeStruct:
		return "struct"
	case ShapeMap:
		return "map"
	case ShapeSlice:
		return "slice"
	case ShapeArray:
		return "array"
	default:
		return common.UnknownStr
	}
}

// IsCollection reports whether the shape holds ordered elements.
func (s Shape) IsCollection() bool {
	return s == ShapeSlice || s == ShapeArray
}

// ShapeOf classifies v after unwrapping pointers and interfaces.
func ShapeOf(v reflect.Value) Shape {
	if IsNil(v) {
		return ShapeNil
	}

	v = Indirect(v)
	if IsNil(v) {
		return ShapeNil
	}

	switch v.Kind() {
	case reflect.Struct:
		return ShapeStruct
	case reflect.Map:
		return ShapeMap
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return ShapeScalar
		}

		return ShapeSlice
	case reflect.Array:
		return ShapeArray
	default:
		return ShapeScalar
	}
}

// ShapeOfValue classifies an arbitrary value.
func ShapeOfValue(v any) Shape {
	return ShapeOf(reflect.ValueOf(v))
}
