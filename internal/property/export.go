package property

import (
	"reflect"

	"field-assembler/internal/analyze"
)

const maxExportDepth = 32

// Export turns v into plain maps, slices and scalars so it can be handed to an
// expression evaluator. Struct fields appear under both their Go name and
// their json name. Scalars and unsupported values are returned unchanged.
func Export(v any) any {
	return export(reflect.ValueOf(v), 0)
}

func export(v reflect.Value, depth int) any {
	if analyze.IsNil(v) {
		return nil
	}

	v = analyze.Indirect(v)
	if analyze.IsNil(v) {
		return nil
	}

	if depth >= maxExportDepth {
		return v.Interface()
	}

	switch analyze.ShapeOf(v) {
	case analyze.ShapeStruct:
		if !v.CanInterface() {
			return nil
		}

		fields := analyze.Fields(v.Type())
		if len(fields) == 0 {
			return v.Interface()
		}

		out := make(map[string]any, len(fields))

		for i := range fields {
			fv, err := v.FieldByIndexErr(fields[i].Index)
			if err != nil {
				continue
			}

			ev := export(fv, depth+1)
			out[fields[i].Name] = ev

			if jn := fields[i].JSONName(); jn != fields[i].Name {
				out[jn] = ev
			}
		}

		return out

	case analyze.ShapeMap:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface()
		}

		out := make(map[string]any, v.Len())
		iter := v.MapRange()

		for iter.Next() {
			out[iter.Key().String()] = export(iter.Value(), depth+1)
		}

		return out

	case analyze.ShapeSlice, analyze.ShapeArray:
		out := make([]any, v.Len())
		for i := range v.Len() {
			out[i] = export(v.Index(i), depth+1)
		}

		return out

	default:
		return v.Interface()
	}
}
