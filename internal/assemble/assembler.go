package assemble

import (
	"reflect"
	"strings"

	"field-assembler/internal/analyze"
	"field-assembler/internal/container"
)

// Ids of the stock strategies.
const (
	OneToOneID   = "one-to-one"
	ManyToManyID = "many-to-many"
	FlattenID    = "flatten"
)

// Assembler turns a key field value into lookup keys, and the values found
// for those keys into the value handed to the property mappings.
type Assembler interface {
	ID() string
	Keys(raw any) []any
	Value(keys []any, found map[any]any) (any, bool)
}

// OneToOne uses the key field value as a single key.
type OneToOne struct{}

// ID implements Assembler.
func (OneToOne) ID() string { return OneToOneID }

// Keys implements Assembler.
func (OneToOne) Keys(raw any) []any {
	if k, ok := container.NormalizeKey(raw); ok {
		return []any{k}
	}

	return nil
}

// Value implements Assembler.
func (OneToOne) Value(keys []any, found map[any]any) (any, bool) {
	if len(keys) == 0 {
		return nil, false
	}

	v, ok := found[keys[0]]

	return v, ok
}

// ManyToMany treats the key field as a collection of keys (or a comma
// separated string) and yields the found values as an ordered list.
type ManyToMany struct{}

// ID implements Assembler.
func (ManyToMany) ID() string { return ManyToManyID }

// Keys implements Assembler.
func (ManyToMany) Keys(raw any) []any {
	v := analyze.Indirect(reflect.ValueOf(raw))
	if analyze.IsNil(v) {
		return nil
	}

	var keys []any

	switch {
	case analyze.ShapeOf(v).IsCollection():
		keys = make([]any, 0, v.Len())
		for i := range v.Len() {
			if v.Index(i).CanInterface() {
				keys = append(keys, v.Index(i).Interface())
			}
		}
	case v.Kind() == reflect.String:
		for _, part := range strings.Split(v.String(), ",") {
			if part = strings.TrimSpace(part); part != "" {
				keys = append(keys, part)
			}
		}
	default:
		keys = []any{raw}
	}

	return container.NormalizeKeys(keys)
}

// Value implements Assembler.
func (ManyToMany) Value(keys []any, found map[any]any) (any, bool) {
	out := make([]any, 0, len(keys))

	for _, k := range keys {
		if v, ok := found[k]; ok {
			out = append(out, v)
		}
	}

	if len(out) == 0 {
		return nil, false
	}

	return out, true
}
