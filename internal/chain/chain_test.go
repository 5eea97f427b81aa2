package chain

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"field-assembler/internal/expression"
	"field-assembler/internal/property"
)

type Profile struct {
	DisplayName string `json:"displayName"`
	Age         int
}

type Member struct {
	ID      int64
	Name    string
	Profile *Profile
}

// spyHandler records whether it was ever consulted for a read or write.
type spyHandler struct {
	priority int
	reads    int
	writes   int
}

func (s *spyHandler) Name() string                { return "spy" }
func (s *spyHandler) Priority() int               { return s.priority }
func (s *spyHandler) CanRead(reflect.Value) bool  { return true }
func (s *spyHandler) CanWrite(reflect.Value) bool { return true }

func (s *spyHandler) Read(_ Accessor, v reflect.Value, _ string) (reflect.Value, bool) {
	s.reads++
	return v, true
}

func (s *spyHandler) Write(Accessor, reflect.Value, string, any) error {
	s.writes++
	return nil
}

func TestNew_SortsHandlersByPriority(t *testing.T) {
	spy := &spyHandler{priority: 150}
	c := New(WithHandlers(spy))

	names := make([]string, 0)
	for _, h := range c.Handlers() {
		names = append(names, h.Name())
	}

	assert.Equal(t, []string{"null", "map", "spy", "collection", "array", "struct", "scalar"}, names)
}

func TestChain_NullNeverReachesConcreteHandlers(t *testing.T) {
	spy := &spyHandler{priority: PriorityNull + 1}
	c := New(WithHandlers(spy))

	for _, src := range []any{nil, (*Member)(nil), map[string]any(nil), []Member(nil)} {
		v, ok := c.Read(reflect.ValueOf(src), "Name")
		assert.False(t, ok)
		assert.False(t, v.IsValid())

		require.NoError(t, c.Write(reflect.ValueOf(src), "Name", "x"))
	}

	assert.Zero(t, spy.reads)
	assert.Zero(t, spy.writes)

	ok, err := c.Apply(&Transfer{Source: nil, Target: reflect.ValueOf(&Member{}), Field: "Name"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChain_Read(t *testing.T) {
	c := New()

	members := []Member{
		{ID: 1, Name: "Alice", Profile: &Profile{DisplayName: "A"}},
		{ID: 2, Name: "Bob"},
	}

	tests := []struct {
		name   string
		source any
		field  string
		want   any
		ok     bool
	}{
		{name: "struct field", source: members[0], field: "Name", want: "Alice", ok: true},
		{name: "struct pointer json name", source: members[0].Profile, field: "displayName", want: "A", ok: true},
		{name: "struct missing field", source: members[0], field: "Nope"},
		{name: "map key", source: map[string]any{"displayName": "Alice"}, field: "displayName", want: "Alice", ok: true},
		{name: "map missing key", source: map[string]any{}, field: "displayName"},
		{name: "int keyed map", source: map[int]string{7: "seven"}, field: "7", want: "seven", ok: true},
		{name: "slice of structs", source: members, field: "Name", want: []any{"Alice", "Bob"}, ok: true},
		{name: "array of maps", source: [2]map[string]int{{"n": 1}, {"n": 2}}, field: "n", want: []any{1, 2}, ok: true},
		{name: "slice of mixed", source: []any{map[string]any{"Name": "m"}, Member{Name: "s"}, nil, 3}, field: "Name", want: []any{"m", "s"}, ok: true},
		{name: "identity struct", source: Profile{Age: 3}, want: Profile{Age: 3}, ok: true},
		{name: "identity scalar", source: "plain", want: "plain", ok: true},
		{name: "identity slice", source: []int{1, 2}, want: []int{1, 2}, ok: true},
		{name: "scalar sub-field", source: 42, field: "Name"},
		{name: "func is unresolvable", source: func() {}, field: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := c.Read(reflect.ValueOf(tt.source), tt.field)
			require.Equal(t, tt.ok, ok)

			if tt.ok {
				assert.Equal(t, tt.want, v.Interface())
			}
		})
	}
}

func TestChain_Write(t *testing.T) {
	c := New()

	t.Run("struct", func(t *testing.T) {
		m := &Member{}
		require.NoError(t, c.Write(reflect.ValueOf(m), "Name", "Alice"))
		assert.Equal(t, "Alice", m.Name)
	})

	t.Run("map", func(t *testing.T) {
		m := map[string]any{}
		require.NoError(t, c.Write(reflect.ValueOf(m), "name", "Alice"))
		assert.Equal(t, "Alice", m["name"])
	})

	t.Run("typed map converts", func(t *testing.T) {
		m := map[string]int64{}
		require.NoError(t, c.Write(reflect.ValueOf(m), "age", 3))
		assert.Equal(t, int64(3), m["age"])
	})

	t.Run("every slice element", func(t *testing.T) {
		members := []Member{{ID: 1}, {ID: 2}}
		require.NoError(t, c.Write(reflect.ValueOf(members), "Name", "same"))
		assert.Equal(t, "same", members[0].Name)
		assert.Equal(t, "same", members[1].Name)
	})

	t.Run("array through pointer", func(t *testing.T) {
		arr := &[2]Member{}
		require.NoError(t, c.Write(reflect.ValueOf(arr), "ID", 9))
		assert.Equal(t, int64(9), arr[0].ID)
		assert.Equal(t, int64(9), arr[1].ID)
	})

	t.Run("nested slice of maps", func(t *testing.T) {
		docs := []any{map[string]any{}, []any{map[string]any{}}}
		require.NoError(t, c.Write(reflect.ValueOf(docs), "k", "v"))
		assert.Equal(t, "v", docs[0].(map[string]any)["k"])
		assert.Equal(t, "v", docs[1].([]any)[0].(map[string]any)["k"])
	})

	t.Run("scalar target is skipped", func(t *testing.T) {
		assert.NoError(t, c.Write(reflect.ValueOf(42), "Name", "x"))
	})

	t.Run("empty name", func(t *testing.T) {
		assert.ErrorIs(t, c.Write(reflect.ValueOf(&Member{}), "", "x"), ErrEmptyName)
	})

	t.Run("unknown field", func(t *testing.T) {
		assert.Error(t, c.Write(reflect.ValueOf(&Member{}), "Nope", "x"))
	})

	t.Run("non addressable struct", func(t *testing.T) {
		assert.Error(t, c.Write(reflect.ValueOf(Member{}), "Name", "x"))
	})

	t.Run("element errors are joined", func(t *testing.T) {
		err := c.Write(reflect.ValueOf([]Member{{}, {}}), "Name", []int{1})
		require.Error(t, err)
		assert.Len(t, err.(interface{ Unwrap() []error }).Unwrap(), 2)
	})
}

func TestChain_Apply(t *testing.T) {
	c := New()

	t.Run("resource to reference", func(t *testing.T) {
		target := &Member{ID: 1}
		ok, err := c.Apply(&Transfer{
			Target:    reflect.ValueOf(target),
			Source:    map[string]any{"displayName": "Alice"},
			Field:     "ID",
			Resource:  "displayName",
			Reference: "Name",
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Alice", target.Name)
	})

	t.Run("identity writes whole value into the field", func(t *testing.T) {
		target := &Member{}
		profile := &Profile{DisplayName: "A", Age: 30}

		ok, err := c.Apply(&Transfer{Target: reflect.ValueOf(target), Source: profile, Field: "Profile"})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Same(t, profile, target.Profile)
	})

	t.Run("missing resource skips write", func(t *testing.T) {
		target := &Member{Name: "keep"}
		ok, err := c.Apply(&Transfer{
			Target:    reflect.ValueOf(target),
			Source:    map[string]any{},
			Resource:  "displayName",
			Reference: "Name",
		})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "keep", target.Name)
	})

	t.Run("nil resource skips write", func(t *testing.T) {
		target := &Member{Profile: &Profile{}}
		ok, err := c.Apply(&Transfer{
			Target:    reflect.ValueOf(target),
			Source:    Member{},
			Resource:  "Profile",
			Reference: "Profile",
		})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NotNil(t, target.Profile)
	})
}

func TestChain_Interceptors(t *testing.T) {
	ev, err := expression.NewEvaluator()
	require.NoError(t, err)

	var seen []string

	record := InterceptorFunc(func(tr *Transfer, value any, found bool) (any, bool, error) {
		seen = append(seen, tr.Destination())
		return value, found, nil
	})

	c := New(WithInterceptors(ExpressionInterceptor{Evaluator: ev}, record))

	t.Run("expression overrides value", func(t *testing.T) {
		target := &Member{ID: 7}
		ok, err := c.Apply(&Transfer{
			Target:     reflect.ValueOf(target),
			Source:     Profile{DisplayName: "Alice"},
			Key:        int64(7),
			Field:      "ID",
			Resource:   "displayName",
			Reference:  "Name",
			Expression: `value + " #" + string(key) + " (" + string(target.ID) + ")"`,
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Alice #7 (7)", target.Name)
	})

	t.Run("expression without value", func(t *testing.T) {
		target := &Member{}
		ok, err := c.Apply(&Transfer{
			Target:         reflect.ValueOf(target),
			Source:         map[string]any{"age": 41},
			Reference:      "Name",
			Expression:     `source.age + 1`,
			ExpressionType: "string",
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "42", target.Name)
	})

	t.Run("null result skips write", func(t *testing.T) {
		target := &Member{Name: "keep"}
		ok, err := c.Apply(&Transfer{
			Target:     reflect.ValueOf(target),
			Source:     map[string]any{"name": "x"},
			Resource:   "name",
			Reference:  "Name",
			Expression: `null`,
		})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "keep", target.Name)
	})

	t.Run("error aborts the transfer", func(t *testing.T) {
		target := &Member{}
		_, err := c.Apply(&Transfer{
			Target:     reflect.ValueOf(target),
			Source:     map[string]any{},
			Reference:  "Name",
			Expression: `source.missing`,
		})
		assert.Error(t, err)
	})

	assert.Equal(t, []string{"Name", "Name", "Name"}, seen)
}

func TestChain_InterceptorError(t *testing.T) {
	boom := errors.New("boom")
	c := New(WithInterceptors(InterceptorFunc(func(*Transfer, any, bool) (any, bool, error) {
		return nil, false, boom
	})))

	_, err := c.Apply(&Transfer{Target: reflect.ValueOf(&Member{}), Source: "x", Field: "Name"})
	assert.ErrorIs(t, err, boom)
}

func TestChain_WithConverter(t *testing.T) {
	flags := map[string]bool{}

	err := New().Write(reflect.ValueOf(flags), "beta", "yes")
	require.ErrorIs(t, err, property.ErrNotConvertible)

	c := New(WithConverter(property.NewConverter(property.CategoryDefault | property.CategoryTextualBool)))
	require.NoError(t, c.Write(reflect.ValueOf(flags), "beta", "yes"))
	assert.True(t, flags["beta"])
	assert.True(t, c.Converter().Categories().Has(property.CategoryTextualBool))
}
