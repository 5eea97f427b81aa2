package property

import (
	"fmt"
	"strings"
)

// Category selects a family of conversions a Converter may apply.
type Category int

const (
	CategorySafeNumber   Category = 1 << iota // int, uint, float without overflow or precision loss
	CategoryUnsafeNumber                      // int, uint, float with truncation or overflow
	CategoryTextNumber                        // int, uint, float <-> string: textual number representation
	CategoryNumericBool                       // int <-> bool: 0, 1 representation of boolean values
	CategoryTextualBool                       // string <-> bool: yes, no, on, off, true, false representation of boolean values
	CategoryDatetime                          // string(RFC3339Nano) <-> time.Time: textual date and time representation
	CategoryTimestamp                         // int(Unix seconds) <-> time.Time: Unix timestamp representation
	CategoryDuration                          // string(2h45m) <-> time.Duration: textual duration representation
	CategoryNanoseconds                       // int(nanoseconds) <-> time.Duration: numerical (integer) duration representation
	CategorySeconds                           // float(seconds) <-> time.Duration: numerical (floating-point) duration representation
	CategoryEnumString                        // string <-> enum: through encoding.TextUnmarshaler and fmt.Stringer
	CategorySafeArray                         // slice <-> array: slice fits into the array
	CategoryUnsafeArray                       // slice <-> array: longer slices are cut

	CategoryAll  Category = (1 << iota) - 1 // all categories combined
	CategoryNone Category = 0               // no categories selected

	// CategoryDefault is the set used by the package level Convert and Set.
	CategoryDefault = CategorySafeNumber | CategoryUnsafeNumber | CategoryTextNumber |
		CategorySafeArray | CategoryUnsafeArray
)

var categoryNames = []struct {
	c    Category
	name string
}{
	{CategorySafeNumber, "safe_number"},
	{CategoryUnsafeNumber, "unsafe_number"},
	{CategoryTextNumber, "text_number"},
	{CategoryNumericBool, "numeric_bool"},
	{CategoryTextualBool, "textual_bool"},
	{CategoryDatetime, "datetime"},
	{CategoryTimestamp, "timestamp"},
	{CategoryDuration, "duration"},
	{CategoryNanoseconds, "nanoseconds"},
	{CategorySeconds, "seconds"},
	{CategoryEnumString, "enum_string"},
	{CategorySafeArray, "safe_array"},
	{CategoryUnsafeArray, "unsafe_array"},
}

// Has reports whether every category of other is selected.
func (c Category) Has(other Category) bool {
	return c&other == other
}

// Names returns the names of the selected categories.
func (c Category) Names() []string {
	var out []string

	for _, cn := range categoryNames {
		if c.Has(cn.c) {
			out = append(out, cn.name)
		}
	}

	return out
}

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryAll:
		return "all"
	default:
		return strings.Join(c.Names(), "|")
	}
}

// ParseCategories combines category names. "all", "none" and "default" are
// accepted as well.
func ParseCategories(names ...string) (Category, error) {
	var out Category

	for _, name := range names {
		switch n := strings.ToLower(strings.TrimSpace(name)); n {
		case "all":
			out |= CategoryAll
		case "none":
		case "default":
			out |= CategoryDefault
		default:
			c, ok := categoryByName(n)
			if !ok {
				return CategoryNone, fmt.Errorf("unknown conversion category %q", name)
			}

			out |= c
		}
	}

	return out, nil
}

func categoryByName(name string) (Category, bool) {
	for _, cn := range categoryNames {
		if cn.name == name {
			return cn.c, true
		}
	}

	return CategoryNone, false
}
