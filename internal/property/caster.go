package property

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"runtime"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
)

var errorType = reflect.TypeFor[error]()

// Caster is a user supplied conversion function between two types.
type Caster struct {
	Src, Dst reflect.Type
	Name     string
	HasBool  bool
	HasErr   bool

	fn reflect.Value
}

// ParseCaster inspects the provided function and returns a Caster if it is a valid caster function.
//
// Supports interfaces:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseCaster(fn any) (Caster, error) {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		return Caster{}, ErrCasterIsNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Caster{}, ErrIsNotACaster
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Ptr && src.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Ptr && dst.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	caster := Caster{Src: src, Dst: dst, fn: fnVal}
	if f := runtime.FuncForPC(fnVal.Pointer()); f != nil {
		caster.Name = path.Base(f.Name())
	}

	switch fnType.NumOut() {
	default:
		return Caster{}, ErrIsNotACaster

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Caster{}, ErrIsNotACaster
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case last.Implements(errorType):
			caster.HasErr = true
		}

		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !terr.Implements(errorType) {
			return Caster{}, ErrIsNotACaster
		}

		caster.HasBool = true
		caster.HasErr = true

		return caster, nil
	}
}

// MustParseCaster is like ParseCaster but panics on error.
func MustParseCaster(fn any) Caster {
	c, err := ParseCaster(fn)
	if err != nil {
		panic(fmt.Sprintf("caster: %v", err))
	}

	return c
}

// Call applies the caster to v, which must be assignable to Src.
func (c Caster) Call(v reflect.Value) (reflect.Value, error) {
	outs := c.fn.Call([]reflect.Value{v})

	if c.HasErr {
		if errVal := outs[len(outs)-1]; !errVal.IsNil() {
			err, _ := errVal.Interface().(error)
			return reflect.Value{}, fmt.Errorf("caster %s: %w: %w", c.Name, ErrNotConvertible, err)
		}
	}

	if c.HasBool && !outs[1].Bool() {
		return reflect.Value{}, fmt.Errorf("caster %s rejected %v: %w", c.Name, v, ErrNotConvertible)
	}

	return outs[0], nil
}
