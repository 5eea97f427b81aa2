package container

import (
	"encoding/json"
	"math"
	"reflect"
)

// NormalizeKey maps a lookup key onto a canonical comparable form:
// integer kinds become int64, integral floats become int64, json.Number
// becomes int64 or float64, string kinds and []byte become string.
// It returns false for absent or non-comparable keys.
func NormalizeKey(k any) (any, bool) {
	switch v := k.(type) {
	case nil:
		return nil, false
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}

		if f, err := v.Float64(); err == nil {
			return normalizeFloat(f), true
		}

		return string(v), true
	case []byte:
		return string(v), true
	}

	rv := reflect.ValueOf(k)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u), true
		}

		return rv.Uint(), true
	case reflect.Float32, reflect.Float64:
		return normalizeFloat(rv.Float()), true
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes()), true
		}

		return nil, false
	}

	if !rv.Comparable() {
		return nil, false
	}

	return rv.Interface(), true
}

func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}

	return f
}

// NormalizeKeys normalises keys, dropping invalid ones and duplicates while
// keeping first-seen order.
func NormalizeKeys(keys []any) []any {
	out := make([]any, 0, len(keys))
	seen := make(map[any]struct{}, len(keys))

	for _, k := range keys {
		nk, ok := NormalizeKey(k)
		if !ok {
			continue
		}

		if _, dup := seen[nk]; dup {
			continue
		}

		seen[nk] = struct{}{}
		out = append(out, nk)
	}

	return out
}

// normalizeMap rekeys a result map with normalised keys.
func normalizeMap[K comparable, V any](in map[K]V) map[any]any {
	out := make(map[any]any, len(in))

	for k, v := range in {
		if nk, ok := NormalizeKey(k); ok {
			out[nk] = v
		}
	}

	return out
}

// pick returns the entries of data present in keys. data must be keyed by
// normalised keys.
func pick(data map[any]any, keys []any) map[any]any {
	out := make(map[any]any, len(keys))

	for _, k := range keys {
		nk, ok := NormalizeKey(k)
		if !ok {
			continue
		}

		if v, found := data[nk]; found {
			out[nk] = v
		}
	}

	return out
}
