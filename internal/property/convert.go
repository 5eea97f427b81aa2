package property

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	stringerType = reflect.TypeFor[fmt.Stringer]()
	unmarshaler  = reflect.TypeFor[encoding.TextUnmarshaler]()
)

type casterKey struct {
	src, dst reflect.Type
}

// Converter converts values to field types. It applies the conversions of
// its categories and any registered casters; casters take precedence.
// A Converter is immutable and safe for concurrent use.
type Converter struct {
	categories Category
	casters    map[casterKey]Caster
}

var defaultConverter = NewConverter(CategoryDefault)

// NewConverter creates a converter for the given categories. Later casters
// replace earlier ones with the same source and destination types.
func NewConverter(categories Category, casters ...Caster) *Converter {
	c := &Converter{categories: categories, casters: make(map[casterKey]Caster, len(casters))}
	for _, cs := range casters {
		c.casters[casterKey{cs.Src, cs.Dst}] = cs
	}

	return c
}

// DefaultConverter returns the converter used by Convert and Set.
func DefaultConverter() *Converter {
	return defaultConverter
}

// Categories returns the enabled conversion categories.
func (c *Converter) Categories() Category {
	if c == nil {
		return defaultConverter.categories
	}

	return c.categories
}

// Convert converts value into a reflect.Value assignable to t with the
// default converter.
func Convert(value any, t reflect.Type) (reflect.Value, error) {
	return defaultConverter.Convert(value, t)
}

// Convert converts value into a reflect.Value assignable to t. A nil
// converter behaves as the default one.
func (c *Converter) Convert(value any, t reflect.Type) (reflect.Value, error) {
	if c == nil {
		c = defaultConverter
	}

	if value == nil {
		return reflect.Zero(t), nil
	}

	return c.convertValue(reflect.ValueOf(value), t)
}

func (c *Converter) allows(cat Category) bool {
	return c.categories.Has(cat)
}

func (c *Converter) convertValue(rv reflect.Value, t reflect.Type) (reflect.Value, error) {
	for rv.Kind() == reflect.Interface && !rv.IsNil() {
		rv = rv.Elem()
	}

	if !rv.IsValid() || (rv.Kind() == reflect.Interface && rv.IsNil()) {
		return reflect.Zero(t), nil
	}

	if cs, ok := c.casters[casterKey{rv.Type(), t}]; ok {
		return cs.Call(rv)
	}

	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	switch {
	case t.Kind() == reflect.Ptr:
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return reflect.Zero(t), nil
		}

		inner, err := c.convertValue(rv, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		p := reflect.New(t.Elem())
		p.Elem().Set(inner)

		return p, nil

	case rv.Kind() == reflect.Ptr:
		if rv.IsNil() {
			return reflect.Zero(t), nil
		}

		return c.convertValue(rv.Elem(), t)

	case t.Kind() == reflect.Interface:
		if rv.Type().Implements(t) {
			return rv, nil
		}
	}

	if out, ok, err := c.convertSpecial(rv, t); ok {
		return out, err
	}

	switch {
	case isNumber(t.Kind()) && isNumber(rv.Kind()):
		return c.convertNumber(rv, t)

	case t.Kind() == reflect.String && rv.Kind() == reflect.String,
		t.Kind() == reflect.Bool && rv.Kind() == reflect.Bool:
		return rv.Convert(t), nil

	case t.Kind() == reflect.String && isNumber(rv.Kind()) && c.allows(CategoryTextNumber):
		return reflect.ValueOf(fmt.Sprint(rv.Interface())).Convert(t), nil

	case isNumber(t.Kind()) && rv.Kind() == reflect.String && c.allows(CategoryTextNumber):
		return parseNumber(rv.String(), t)

	case t.Kind() == reflect.String && rv.Kind() == reflect.Bool && c.allows(CategoryTextualBool):
		return reflect.ValueOf(strconv.FormatBool(rv.Bool())).Convert(t), nil

	case t.Kind() == reflect.Bool && rv.Kind() == reflect.String && c.allows(CategoryTextualBool):
		return parseBool(rv.String(), t)

	case t.Kind() == reflect.Bool && isNumber(rv.Kind()) && c.allows(CategoryNumericBool):
		return numberToBool(rv, t)

	case isNumber(t.Kind()) && rv.Kind() == reflect.Bool && c.allows(CategoryNumericBool):
		n := 0
		if rv.Bool() {
			n = 1
		}

		return reflect.ValueOf(n).Convert(t), nil

	case t.Kind() == reflect.Slice && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array):
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := range rv.Len() {
			ev, err := c.convertValue(rv.Index(i), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}

			out.Index(i).Set(ev)
		}

		return out, nil

	case t.Kind() == reflect.Array && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array):
		return c.convertArray(rv, t)

	case t.Kind() == reflect.Map && rv.Kind() == reflect.Map:
		out := reflect.MakeMapWithSize(t, rv.Len())
		iter := rv.MapRange()

		for iter.Next() {
			k, err := c.convertValue(iter.Key(), t.Key())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("map key: %w", err)
			}

			v, err := c.convertValue(iter.Value(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("map value %v: %w", iter.Key(), err)
			}

			out.SetMapIndex(k, v)
		}

		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("%s to %s: %w", rv.Type(), t, ErrNotConvertible)
}

// convertSpecial handles time, duration and enum conversions. The boolean
// reports whether one of them applied.
func (c *Converter) convertSpecial(rv reflect.Value, t reflect.Type) (reflect.Value, bool, error) {
	src := rv.Type()

	switch {
	case t == timeType && rv.Kind() == reflect.String && c.allows(CategoryDatetime):
		ts, err := time.Parse(time.RFC3339Nano, rv.String())
		if err != nil {
			return reflect.Value{}, true, fmt.Errorf("%q to %s: %w", rv.String(), t, ErrNotConvertible)
		}

		return reflect.ValueOf(ts), true, nil

	case t == timeType && isInteger(rv.Kind()) && c.allows(CategoryTimestamp):
		return reflect.ValueOf(time.Unix(toInt64(rv), 0).UTC()), true, nil

	case src == timeType && t.Kind() == reflect.String && c.allows(CategoryDatetime):
		ts, _ := rv.Interface().(time.Time)
		return reflect.ValueOf(ts.Format(time.RFC3339Nano)).Convert(t), true, nil

	case src == timeType && isInteger(t.Kind()) && c.allows(CategoryTimestamp):
		ts, _ := rv.Interface().(time.Time)
		return reflect.ValueOf(ts.Unix()).Convert(t), true, nil

	case t == durationType && rv.Kind() == reflect.String && c.allows(CategoryDuration):
		d, err := time.ParseDuration(rv.String())
		if err != nil {
			return reflect.Value{}, true, fmt.Errorf("%q to %s: %w", rv.String(), t, ErrNotConvertible)
		}

		return reflect.ValueOf(d), true, nil

	case t == durationType && isInteger(rv.Kind()):
		if !c.allows(CategoryNanoseconds) {
			return reflect.Value{}, true, fmt.Errorf("%s to %s: %w", src, t, ErrNotConvertible)
		}

		return reflect.ValueOf(time.Duration(toInt64(rv))), true, nil

	case t == durationType && isFloat(rv.Kind()):
		if !c.allows(CategorySeconds) {
			return reflect.Value{}, true, fmt.Errorf("%s to %s: %w", src, t, ErrNotConvertible)
		}

		return reflect.ValueOf(time.Duration(rv.Float() * float64(time.Second))), true, nil

	case src == durationType && t.Kind() == reflect.String && c.allows(CategoryDuration):
		return reflect.ValueOf(time.Duration(rv.Int()).String()).Convert(t), true, nil

	case src == durationType && isInteger(t.Kind()) && c.allows(CategoryNanoseconds):
		return reflect.ValueOf(rv.Int()).Convert(t), true, nil

	case src == durationType && isFloat(t.Kind()) && c.allows(CategorySeconds):
		return reflect.ValueOf(time.Duration(rv.Int()).Seconds()).Convert(t), true, nil

	case t.Kind() == reflect.String && src.Implements(stringerType) && src.Kind() != reflect.String &&
		c.allows(CategoryEnumString):
		s, _ := rv.Interface().(fmt.Stringer)
		return reflect.ValueOf(s.String()).Convert(t), true, nil

	case rv.Kind() == reflect.String && reflect.PointerTo(t).Implements(unmarshaler) && c.allows(CategoryEnumString):
		out := reflect.New(t)

		u, _ := out.Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(rv.String())); err != nil {
			return reflect.Value{}, true, fmt.Errorf("%q to %s: %w: %w", rv.String(), t, ErrNotConvertible, err)
		}

		return out.Elem(), true, nil
	}

	return reflect.Value{}, false, nil
}

// convertNumber converts between numeric kinds. Lossless conversions need
// CategorySafeNumber, lossy ones CategoryUnsafeNumber.
func (c *Converter) convertNumber(rv reflect.Value, t reflect.Type) (reflect.Value, error) {
	out := rv.Convert(t)

	cat := CategoryUnsafeNumber
	if lossless(rv, out) {
		cat = CategorySafeNumber
	}

	if !c.allows(cat) {
		return reflect.Value{}, fmt.Errorf("%v (%s) to %s: %w", rv.Interface(), rv.Type(), t, ErrNotConvertible)
	}

	return out, nil
}

func (c *Converter) convertArray(rv reflect.Value, t reflect.Type) (reflect.Value, error) {
	if rv.Len() > t.Len() && !c.allows(CategoryUnsafeArray) {
		return reflect.Value{}, fmt.Errorf("%d elements to %s: %w", rv.Len(), t, ErrNotConvertible)
	}

	if rv.Len() <= t.Len() && !c.allows(CategorySafeArray) && !c.allows(CategoryUnsafeArray) {
		return reflect.Value{}, fmt.Errorf("%s to %s: %w", rv.Type(), t, ErrNotConvertible)
	}

	out := reflect.New(t).Elem()
	for i := range min(rv.Len(), t.Len()) {
		ev, err := c.convertValue(rv.Index(i), t.Elem())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}

		out.Index(i).Set(ev)
	}

	return out, nil
}

// lossless reports whether out holds exactly the number in rv.
func lossless(rv, out reflect.Value) bool {
	switch {
	case isSigned(rv.Kind()) && rv.Int() < 0 && isUnsigned(out.Kind()):
		return false
	case isUnsigned(rv.Kind()) && isSigned(out.Kind()) && out.Int() < 0:
		return false
	case isFloat(rv.Kind()) && (math.IsNaN(rv.Float()) || math.IsInf(rv.Float(), 0)) && !isFloat(out.Kind()):
		return false
	}

	back := out.Convert(rv.Type())

	switch {
	case isSigned(rv.Kind()):
		return back.Int() == rv.Int()
	case isUnsigned(rv.Kind()):
		return back.Uint() == rv.Uint()
	default:
		return back.Float() == rv.Float() || (math.IsNaN(rv.Float()) && math.IsNaN(back.Float()))
	}
}

func parseNumber(s string, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()

	switch {
	case isSigned(t.Kind()):
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q to %s: %w", s, t, ErrNotConvertible)
		}

		out.SetInt(n)
	case isUnsigned(t.Kind()):
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q to %s: %w", s, t, ErrNotConvertible)
		}

		out.SetUint(n)
	default:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q to %s: %w", s, t, ErrNotConvertible)
		}

		out.SetFloat(f)
	}

	return out, nil
}

func parseBool(s string, t reflect.Type) (reflect.Value, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return reflect.ValueOf(true).Convert(t), nil
	case "false", "no", "off", "0":
		return reflect.ValueOf(false).Convert(t), nil
	default:
		return reflect.Value{}, fmt.Errorf("%q to %s: %w", s, t, ErrNotConvertible)
	}
}

func numberToBool(rv reflect.Value, t reflect.Type) (reflect.Value, error) {
	f := rv.Convert(reflect.TypeFor[float64]()).Float()

	switch f {
	case 0:
		return reflect.ValueOf(false).Convert(t), nil
	case 1:
		return reflect.ValueOf(true).Convert(t), nil
	default:
		return reflect.Value{}, fmt.Errorf("%v to %s: %w", rv.Interface(), t, ErrNotConvertible)
	}
}

func toInt64(rv reflect.Value) int64 {
	if isUnsigned(rv.Kind()) {
		return int64(rv.Uint())
	}

	return rv.Int()
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func isInteger(k reflect.Kind) bool { return isSigned(k) || isUnsigned(k) }
func isFloat(k reflect.Kind) bool   { return k == reflect.Float32 || k == reflect.Float64 }
func isNumber(k reflect.Kind) bool  { return isInteger(k) || isFloat(k) }
