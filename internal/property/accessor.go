package property

import (
	"errors"
	"fmt"
	"reflect"

	"field-assembler/internal/analyze"
)

var (
	// ErrNoSuchField is returned when a struct has no field matching the requested name.
	ErrNoSuchField = errors.New("no such field")
	// ErrNotAddressable is returned when a struct value cannot be written in place.
	ErrNotAddressable = errors.New("struct value is not addressable")
	// ErrNotConvertible is returned when a value cannot be converted to the field type.
	ErrNotConvertible = errors.New("value not convertible")
)

// Has reports whether struct type t declares a field matching name.
func Has(t reflect.Type, name string) bool {
	_, ok := analyze.LookupField(t, name)
	return ok
}

// Get reads field name from v, which must be a struct or a pointer to one.
// The boolean reports whether the field exists; the returned value is invalid
// when the field is reached through a nil embedded pointer.
func Get(v reflect.Value, name string) (reflect.Value, bool) {
	v = analyze.Indirect(v)
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	fi, ok := analyze.LookupField(v.Type(), name)
	if !ok {
		return reflect.Value{}, false
	}

	fv, err := v.FieldByIndexErr(fi.Index)
	if err != nil {
		return reflect.Value{}, true
	}

	return fv, true
}

// Set writes value into field name of v with the default converter. v must
// be a pointer to a struct or an addressable struct value.
func Set(v reflect.Value, name string, value any) error {
	return defaultConverter.Set(v, name, value)
}

// Set writes value into field name of v, converting it to the field type.
func (c *Converter) Set(v reflect.Value, name string, value any) error {
	v = analyze.Indirect(v)
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return fmt.Errorf("set %q: %w", name, ErrNoSuchField)
	}

	if !v.CanAddr() {
		return fmt.Errorf("set %q on %s: %w", name, v.Type(), ErrNotAddressable)
	}

	fi, ok := analyze.LookupField(v.Type(), name)
	if !ok {
		return fmt.Errorf("set %q on %s: %w", name, v.Type(), ErrNoSuchField)
	}

	fv := fieldByIndexAlloc(v, fi.Index)
	if !fv.CanSet() {
		return fmt.Errorf("set %q on %s: %w", name, v.Type(), ErrNotAddressable)
	}

	cv, err := c.Convert(value, fv.Type())
	if err != nil {
		return fmt.Errorf("set %s.%s: %w", v.Type(), fi.Name, err)
	}

	fv.Set(cv)

	return nil
}

// fieldByIndexAlloc walks index, allocating nil embedded struct pointers.
func fieldByIndexAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v
}
