package property

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Level int

func (l Level) String() string { return [...]string{"low", "high"}[l] }

func (l *Level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "low":
		*l = 0
	case "high":
		*l = 1
	default:
		return fmt.Errorf("unknown level %q", b)
	}

	return nil
}

func TestConverter_Categories(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		categories Category
		value      any
		to         reflect.Type
		want       any
		wantErr    bool
	}{
		{"safe widening", CategorySafeNumber, int8(5), reflect.TypeFor[int64](), int64(5), false},
		{"safe float", CategorySafeNumber, float64(2), reflect.TypeFor[int](), 2, false},
		{"lossy float", CategorySafeNumber, 2.5, reflect.TypeFor[int](), nil, true},
		{"lossy float allowed", CategoryUnsafeNumber, 2.5, reflect.TypeFor[int](), 2, false},
		{"overflow", CategorySafeNumber, 300, reflect.TypeFor[uint8](), nil, true},
		{"negative to unsigned", CategorySafeNumber, -1, reflect.TypeFor[uint](), nil, true},
		{"text number", CategoryTextNumber, "42", reflect.TypeFor[int32](), int32(42), false},
		{"text number disabled", CategoryNone, "42", reflect.TypeFor[int32](), nil, true},
		{"number text", CategoryTextNumber, 1.5, reflect.TypeFor[string](), "1.5", false},
		{"textual bool", CategoryTextualBool, "yes", reflect.TypeFor[bool](), true, false},
		{"textual bool off", CategoryTextualBool, "off", reflect.TypeFor[bool](), false, false},
		{"textual bool invalid", CategoryTextualBool, "maybe", reflect.TypeFor[bool](), nil, true},
		{"bool text", CategoryTextualBool, true, reflect.TypeFor[string](), "true", false},
		{"bool text disabled", CategoryDefault, true, reflect.TypeFor[string](), nil, true},
		{"numeric bool", CategoryNumericBool, 1, reflect.TypeFor[bool](), true, false},
		{"numeric bool invalid", CategoryNumericBool, 2, reflect.TypeFor[bool](), nil, true},
		{"bool numeric", CategoryNumericBool, true, reflect.TypeFor[int64](), int64(1), false},
		{"datetime", CategoryDatetime, "2024-03-01T12:00:00Z", reflect.TypeFor[time.Time](), ts, false},
		{"datetime text", CategoryDatetime, ts, reflect.TypeFor[string](), "2024-03-01T12:00:00Z", false},
		{"timestamp", CategoryTimestamp, ts.Unix(), reflect.TypeFor[time.Time](), ts, false},
		{"timestamp int", CategoryTimestamp, ts, reflect.TypeFor[int64](), ts.Unix(), false},
		{"duration", CategoryDuration, "2h45m", reflect.TypeFor[time.Duration](), 165 * time.Minute, false},
		{"duration text", CategoryDuration, time.Second, reflect.TypeFor[string](), "1s", false},
		{"nanoseconds", CategoryNanoseconds, 1500, reflect.TypeFor[time.Duration](), 1500 * time.Nanosecond, false},
		{"nanoseconds disabled", CategoryDefault, 1500, reflect.TypeFor[time.Duration](), nil, true},
		{"seconds", CategorySeconds, 1.5, reflect.TypeFor[time.Duration](), 1500 * time.Millisecond, false},
		{"duration seconds", CategorySeconds, 2 * time.Second, reflect.TypeFor[float64](), 2.0, false},
		{"enum parse", CategoryEnumString, "high", reflect.TypeFor[Level](), Level(1), false},
		{"enum parse invalid", CategoryEnumString, "mid", reflect.TypeFor[Level](), nil, true},
		{"enum text", CategoryEnumString, Level(0), reflect.TypeFor[string](), "low", false},
		{"safe array", CategorySafeArray, []int{1}, reflect.TypeFor[[2]int](), [2]int{1, 0}, false},
		{"unsafe array", CategorySafeArray, []int{1, 2, 3}, reflect.TypeFor[[2]int](), nil, true},
		{"unsafe array allowed", CategoryUnsafeArray, []int{1, 2, 3}, reflect.TypeFor[[2]int](), [2]int{1, 2}, false},
		{"named string always", CategoryNone, "x", reflect.TypeFor[Status](), Status("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewConverter(tt.categories).Convert(tt.value, tt.to)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNotConvertible)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Interface())
		})
	}
}

func TestConverter_Casters(t *testing.T) {
	upper := MustParseCaster(strings.ToUpper)
	atoi := MustParseCaster(strconv.Atoi)

	c := NewConverter(CategoryNone, upper, atoi)

	v, err := c.Convert("abc", reflect.TypeFor[string]())
	require.NoError(t, err)
	assert.Equal(t, "ABC", v.Interface())

	v, err = c.Convert("12", reflect.TypeFor[int]())
	require.NoError(t, err)
	assert.Equal(t, 12, v.Interface())

	// pointers unwrap down to the caster types
	v, err = c.Convert("7", reflect.TypeFor[*int]())
	require.NoError(t, err)
	assert.Equal(t, 7, *(v.Interface().(*int)))

	_, err = c.Convert("x", reflect.TypeFor[int]())
	require.ErrorIs(t, err, ErrNotConvertible)
	assert.Contains(t, err.Error(), "Atoi")

	positive := MustParseCaster(func(n int) (uint, bool) { return uint(max(n, 0)), n >= 0 })
	_, err = NewConverter(CategoryNone, positive).Convert(-1, reflect.TypeFor[uint]())
	require.ErrorIs(t, err, ErrNotConvertible)
}

func TestConverter_Set(t *testing.T) {
	c := NewConverter(CategoryDefault | CategoryTextualBool)

	type flags struct{ Enabled bool }

	f := &flags{}
	require.NoError(t, c.Set(reflect.ValueOf(f), "enabled", "on"))
	assert.True(t, f.Enabled)

	err := Set(reflect.ValueOf(f), "enabled", "on")
	require.ErrorIs(t, err, ErrNotConvertible)

	var nilConverter *Converter
	assert.Equal(t, CategoryDefault, nilConverter.Categories())
}

func TestParseCaster(t *testing.T) {
	tests := []struct {
		name    string
		fn      any
		wantErr error
		hasBool bool
		hasErr  bool
	}{
		{name: "plain", fn: strconv.Itoa},
		{name: "error", fn: strconv.Atoi, hasErr: true},
		{name: "bool", fn: func(int) (string, bool) { return "", true }, hasBool: true},
		{name: "bool error", fn: func(int) (string, bool, error) { return "", true, nil }, hasBool: true, hasErr: true},
		{name: "not a function", fn: 42, wantErr: ErrCasterIsNotAFunction},
		{name: "no result", fn: func(int) {}, wantErr: ErrIsNotACaster},
		{name: "two args", fn: func(int, int) string { return "" }, wantErr: ErrIsNotACaster},
		{name: "wrong order", fn: func(int) (string, error, bool) { return "", nil, true }, wantErr: ErrIsNotACaster},
		{name: "double pointer", fn: func(**int) string { return "" }, wantErr: ErrDoublePointer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCaster(tt.fn)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.hasBool, c.HasBool)
			assert.Equal(t, tt.hasErr, c.HasErr)
		})
	}

	c, err := ParseCaster(strconv.Itoa)
	require.NoError(t, err)
	assert.Equal(t, "strconv.Itoa", c.Name)

	assert.Panics(t, func() { MustParseCaster("nope") })
	assert.False(t, errors.Is(ErrIsNotACaster, ErrNotConvertible))
}

func TestParseCategories(t *testing.T) {
	c, err := ParseCategories("default", "textual_bool", " Duration ")
	require.NoError(t, err)
	assert.True(t, c.Has(CategoryDefault))
	assert.True(t, c.Has(CategoryTextualBool|CategoryDuration))
	assert.False(t, c.Has(CategoryDatetime))

	all, err := ParseCategories("all")
	require.NoError(t, err)
	assert.Equal(t, CategoryAll, all)
	assert.Equal(t, "all", all.String())
	assert.Equal(t, "none", CategoryNone.String())
	assert.Equal(t, "safe_number|text_number", (CategorySafeNumber | CategoryTextNumber).String())

	_, err = ParseCategories("magic")
	require.Error(t, err)
}
