package container

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaders(t *testing.T) {
	var calls [][]int

	l := NewLoaders("invoke")
	l.Register("users", Loader(func(_ context.Context, ids []int) (map[int]string, error) {
		calls = append(calls, ids)

		out := map[int]string{}
		for _, id := range ids {
			if id != 3 {
				out[id] = "user-" + string(rune('0'+id))
			}
		}

		return out, nil
	}))
	l.Register("broken", func(context.Context, []any) (map[any]any, error) {
		return nil, errors.New("backend down")
	})

	got, err := l.Get(context.Background(), "users", []any{int64(1), int64(3), "not-a-number"})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{int64(1): "user-1"}, got)
	assert.Equal(t, [][]int{{1, 3}}, calls)

	_, err = l.Get(context.Background(), "broken", []any{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")

	_, err = l.Get(context.Background(), "nobody", []any{1})
	assert.ErrorIs(t, err, ErrUnknownNamespace)
}

func TestLoader_NoConvertibleKeysSkipsCall(t *testing.T) {
	called := false
	fn := Loader(func(context.Context, []int) (map[int]int, error) {
		called = true
		return nil, nil
	})

	got, err := fn(context.Background(), []any{"x", "y"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, called)
}
