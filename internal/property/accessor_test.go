package property

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Audit struct {
	CreatedBy string
}

type Status string

type User struct {
	*Audit
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Status   Status
	Nickname *string
	Tags     []string
	Scores   [2]int
	Labels   map[string]string
}

func TestGet(t *testing.T) {
	u := &User{ID: 7, Name: "alice"}

	v, ok := Get(reflect.ValueOf(u), "name")
	require.True(t, ok)
	assert.Equal(t, "alice", v.Interface())

	v, ok = Get(reflect.ValueOf(*u), "ID")
	require.True(t, ok)
	assert.Equal(t, int64(7), v.Interface())

	_, ok = Get(reflect.ValueOf(u), "missing")
	assert.False(t, ok)

	// promoted through a nil embedded pointer: exists, but no value
	v, ok = Get(reflect.ValueOf(u), "CreatedBy")
	assert.True(t, ok)
	assert.False(t, v.IsValid())

	_, ok = Get(reflect.ValueOf(42), "x")
	assert.False(t, ok)
}

func TestSet(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		check func(t *testing.T, u *User)
	}{
		{"direct", "Name", "bob", func(t *testing.T, u *User) { assert.Equal(t, "bob", u.Name) }},
		{"json name", "name", "carol", func(t *testing.T, u *User) { assert.Equal(t, "carol", u.Name) }},
		{"numeric widening", "ID", 5, func(t *testing.T, u *User) { assert.Equal(t, int64(5), u.ID) }},
		{"float to int", "ID", float64(9), func(t *testing.T, u *User) { assert.Equal(t, int64(9), u.ID) }},
		{"string parse", "ID", "12", func(t *testing.T, u *User) { assert.Equal(t, int64(12), u.ID) }},
		{"named string", "Status", "ACTIVE", func(t *testing.T, u *User) { assert.Equal(t, Status("ACTIVE"), u.Status) }},
		{"number to string", "Name", int64(3), func(t *testing.T, u *User) { assert.Equal(t, "3", u.Name) }},
		{"pointer wrap", "Nickname", "al", func(t *testing.T, u *User) {
			require.NotNil(t, u.Nickname)
			assert.Equal(t, "al", *u.Nickname)
		}},
		{"slice elementwise", "Tags", []any{"a", "b"}, func(t *testing.T, u *User) {
			assert.Equal(t, []string{"a", "b"}, u.Tags)
		}},
		{"array from slice", "Scores", []any{1, 2, 3}, func(t *testing.T, u *User) {
			assert.Equal(t, [2]int{1, 2}, u.Scores)
		}},
		{"map convert", "Labels", map[string]any{"k": "v"}, func(t *testing.T, u *User) {
			assert.Equal(t, map[string]string{"k": "v"}, u.Labels)
		}},
		{"embedded alloc", "CreatedBy", "root", func(t *testing.T, u *User) {
			require.NotNil(t, u.Audit)
			assert.Equal(t, "root", u.CreatedBy)
		}},
		{"nil zeroes", "Name", nil, func(t *testing.T, u *User) { assert.Empty(t, u.Name) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Name: "initial"}
			require.NoError(t, Set(reflect.ValueOf(u), tt.field, tt.value))
			tt.check(t, u)
		})
	}
}

func TestSetErrors(t *testing.T) {
	u := &User{}

	err := Set(reflect.ValueOf(u), "Nope", 1)
	require.ErrorIs(t, err, ErrNoSuchField)

	err = Set(reflect.ValueOf(*u), "Name", "x")
	require.ErrorIs(t, err, ErrNotAddressable)

	err = Set(reflect.ValueOf(u), "ID", "not-a-number")
	require.ErrorIs(t, err, ErrNotConvertible)

	err = Set(reflect.ValueOf(u), "Tags", 42)
	require.ErrorIs(t, err, ErrNotConvertible)

	err = Set(reflect.ValueOf("str"), "Name", "x")
	require.ErrorIs(t, err, ErrNoSuchField)
}

func TestHas(t *testing.T) {
	assert.True(t, Has(reflect.TypeFor[User](), "nickname"))
	assert.False(t, Has(reflect.TypeFor[User](), "age"))
}

func TestExport(t *testing.T) {
	nick := "al"
	u := &User{ID: 1, Name: "alice", Nickname: &nick, Tags: []string{"x"}}

	out, ok := Export(u).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(1), out["ID"])
	assert.Equal(t, int64(1), out["id"])
	assert.Equal(t, "alice", out["name"])
	assert.Equal(t, "al", out["Nickname"])
	assert.Equal(t, []any{"x"}, out["Tags"])
	assert.Nil(t, out["CreatedBy"])

	assert.Nil(t, Export(nil))
	assert.Equal(t, 3, Export(3))
	assert.Equal(t, map[string]any{"a": []any{1}}, Export(map[string][]int{"a": {1}}))
}
