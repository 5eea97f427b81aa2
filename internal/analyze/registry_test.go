package analyze

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Order struct{ Items []*OrderItem }

type OrderItem struct{ SKU string }

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry(TypeFor[Order]())
	r.RegisterValues(&OrderItem{}, nil)
	r.Register(TypeFor[Order]())

	require.Len(t, r.Names(), 2)

	pkg := reflect.TypeFor[Order]().PkgPath()

	for _, name := range []string{pkg + ".Order", "analyze.Order", "Order"} {
		got, ok := r.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, reflect.TypeFor[Order](), got.Go)
	}

	got, ok := r.Lookup("OrderItem")
	require.True(t, ok)
	assert.Equal(t, "OrderItem", got.ID.Name)

	_, ok = r.Lookup("Missing")
	assert.False(t, ok)

	var nilReg *Registry
	_, ok = nilReg.Lookup("Order")
	assert.False(t, ok)
}

func TestTypeID_Matches(t *testing.T) {
	id := TypeID{PkgPath: "example.com/store", Name: "Order"}

	assert.True(t, id.Matches("example.com/store.Order"))
	assert.True(t, id.Matches("store.Order"))
	assert.True(t, id.Matches("Order"))
	assert.False(t, id.Matches("warehouse.Order"))
	assert.False(t, id.Matches(""))
}

func TestElemType(t *testing.T) {
	assert.Equal(t, reflect.TypeFor[OrderItem](), ElemType(reflect.TypeFor[[]*OrderItem]()))
	assert.Equal(t, reflect.TypeFor[OrderItem](), ElemType(reflect.TypeFor[*[2][]OrderItem]()))
	assert.Equal(t, reflect.TypeFor[[]byte](), ElemType(reflect.TypeFor[[][]byte]()))
	assert.Equal(t, reflect.TypeFor[Order](), ElemType(reflect.TypeFor[*Order]()))
	assert.Nil(t, ElemType(nil))
}
