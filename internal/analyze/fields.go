package analyze

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"field-assembler/internal/match"
)

// FieldInfo describes an exported struct field, including promoted fields of
// embedded structs.
type FieldInfo struct {
	Name  string            // Go field name
	Type  reflect.Type      // Field type
	Tag   reflect.StructTag // Raw struct tag
	Index []int             // Index path for reflect.Value.FieldByIndex
}

// JSONName returns the JSON tag name if present, otherwise the field name.
func (f *FieldInfo) JSONName() string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return f.Name
	}

	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}

	return f.Name
}

type fieldSet struct {
	all        []FieldInfo
	byName     map[string]int
	byJSON     map[string]int
	normalized map[string]int
}

var fieldCache sync.Map // reflect.Type -> *fieldSet

// Fields returns the exported fields of struct type t (pointers are dereferenced).
// Returns nil for non-struct types.
func Fields(t reflect.Type) []FieldInfo {
	fs := fieldsOf(t)
	if fs == nil {
		return nil
	}

	return fs.all
}

// FieldNames returns the Go names of the exported fields of t.
func FieldNames(t reflect.Type) []string {
	fields := Fields(t)
	names := make([]string, len(fields))

	for i := range fields {
		names[i] = fields[i].Name
	}

	return names
}

// LookupField finds a field of t by Go name, then json name, then by
// normalised identifier ("display_name" finds DisplayName).
func LookupField(t reflect.Type, name string) (FieldInfo, bool) {
	fs := fieldsOf(t)
	if fs == nil || name == "" {
		return FieldInfo{}, false
	}

	if i, ok := fs.byName[name]; ok {
		return fs.all[i], true
	}

	if i, ok := fs.byJSON[name]; ok {
		return fs.all[i], true
	}

	if i, ok := fs.normalized[match.NormalizeIdent(name)]; ok {
		return fs.all[i], true
	}

	return FieldInfo{}, false
}

// FieldKey returns the identity of the field a declared name designates on t.
// Names resolving to the same struct field share a key whatever their
// spelling; names on logical types (and unknown names) compare by their
// normalised form.
func FieldKey(t Type, name string) string {
	if t.IsStruct() {
		if fi, ok := LookupField(t.Go, name); ok {
			return "#" + strings.Trim(fmt.Sprint(fi.Index), "[]")
		}
	}

	return match.NormalizeIdent(name)
}

func fieldsOf(t reflect.Type) *fieldSet {
	t = Deref(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	if cached, ok := fieldCache.Load(t); ok {
		return cached.(*fieldSet)
	}

	fs := &fieldSet{
		byName:     make(map[string]int),
		byJSON:     make(map[string]int),
		normalized: make(map[string]int),
	}

	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}

		fi := FieldInfo{Name: sf.Name, Type: sf.Type, Tag: sf.Tag, Index: sf.Index}
		i := len(fs.all)
		fs.all = append(fs.all, fi)

		// Shallower fields win: VisibleFields lists outer fields first.
		if _, ok := fs.byName[fi.Name]; !ok {
			fs.byName[fi.Name] = i
		}

		if _, ok := fs.byJSON[fi.JSONName()]; !ok {
			fs.byJSON[fi.JSONName()] = i
		}

		norm := match.NormalizeIdent(fi.Name)
		if _, ok := fs.normalized[norm]; !ok {
			fs.normalized[norm] = i
		}
	}

	actual, _ := fieldCache.LoadOrStore(t, fs)

	return actual.(*fieldSet)
}
