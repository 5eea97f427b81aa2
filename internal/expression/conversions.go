package expression

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"

	"field-assembler/internal/property"
)

var (
	// ErrUnsupportedType is returned when a CEL value has no Go counterpart.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrUnknownResultType is returned for an unknown declared result type.
	ErrUnknownResultType = errors.New("unknown result type")
)

// GoNativeType transforms CEL output into the corresponding Go types.
func GoNativeType(v ref.Val) (any, error) {
	switch v.Type() {
	case types.BoolType:
		return v.Value().(bool), nil
	case types.IntType:
		return v.Value().(int64), nil
	case types.UintType:
		return v.Value().(uint64), nil
	case types.DoubleType:
		return v.Value().(float64), nil
	case types.StringType:
		return v.Value().(string), nil
	case types.BytesType:
		return v.Value().([]byte), nil
	case types.ListType:
		return convertList(v)
	case types.MapType:
		return convertMap(v)
	case types.OptionalType:
		opt := v.(*types.Optional)
		if !opt.HasValue() {
			return nil, nil
		}

		return GoNativeType(opt.GetValue())
	case types.NullType:
		return nil, nil
	case types.TimestampType, types.DurationType:
		return v.Value(), nil
	default:
		return v.Value(), fmt.Errorf("%w: %v", ErrUnsupportedType, v.Type())
	}
}

func convertList(v ref.Val) (any, error) {
	lister, ok := v.(traits.Lister)
	if !ok {
		return v.ConvertToNative(reflect.TypeOf([]any{}))
	}

	result := []any{}

	it := lister.Iterator()
	for it.HasNext() == types.True {
		native, err := GoNativeType(it.Next())
		if err != nil {
			return nil, err
		}

		result = append(result, native)
	}

	return result, nil
}

func convertMap(v ref.Val) (any, error) {
	mapper, ok := v.(traits.Mapper)
	if !ok {
		return v.ConvertToNative(reflect.TypeOf(map[string]any{}))
	}

	result := make(map[string]any)

	it := mapper.Iterator()
	for it.HasNext() == types.True {
		key := it.Next()

		keyNative, err := GoNativeType(key)
		if err != nil {
			return nil, fmt.Errorf("failed to convert map key: %w", err)
		}

		keyStr, ok := keyNative.(string)
		if !ok {
			keyStr = fmt.Sprint(keyNative)
		}

		valNative, err := GoNativeType(mapper.Get(key))
		if err != nil {
			return nil, err
		}

		result[keyStr] = valNative
	}

	return result, nil
}

var resultTypes = map[string]reflect.Type{
	"string": reflect.TypeFor[string](),
	"int":    reflect.TypeFor[int64](),
	"uint":   reflect.TypeFor[uint64](),
	"float":  reflect.TypeFor[float64](),
	"bool":   reflect.TypeFor[bool](),
	"list":   reflect.TypeFor[[]any](),
	"map":    reflect.TypeFor[map[string]any](),
}

// coercer backs Coerce; explicit result types also accept textual booleans.
var coercer = property.NewConverter(property.CategoryDefault | property.CategoryTextualBool)

// Coerce converts an evaluated value to the declared result type. An empty
// type or "any" returns v unchanged, as does a nil v.
func Coerce(v any, resultType string) (any, error) {
	if v == nil || resultType == "" || resultType == "any" {
		return v, nil
	}

	t, ok := resultTypes[resultType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResultType, resultType)
	}

	cv, err := coercer.Convert(v, t)
	if err != nil {
		return nil, fmt.Errorf("coerce to %s: %w", resultType, err)
	}

	return cv.Interface(), nil
}
