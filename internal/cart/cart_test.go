package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qkart/storefront/internal/domain"
)

func testCatalog() []domain.Product {
	return []domain.Product{
		{ID: "a", Name: "iPhone XR", Category: "Phones", Cost: 10, Rating: 4, Image: "a.jpg"},
		{ID: "b", Name: "Basketball", Category: "Sports", Cost: 20, Rating: 5, Image: "b.jpg"},
	}
}

func TestMaterialize_DropsUnknownProducts(t *testing.T) {
	refs := []domain.CartReference{
		{ProductID: "a", Qty: 2},
		{ProductID: "c", Qty: 5},
	}

	items := Materialize(refs, testCatalog())

	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "a", items[0].ProductID)
	assert.Equal(t, "iPhone XR", items[0].Name)
	assert.Equal(t, 10.0, items[0].Cost)
	assert.Equal(t, 2, items[0].Qty)
	assert.Equal(t, 20.0, TotalValue(items))
}

func TestMaterialize_PreservesReferenceOrder(t *testing.T) {
	refs := []domain.CartReference{
		{ProductID: "b", Qty: 1},
		{ProductID: "missing", Qty: 1},
		{ProductID: "a", Qty: 3},
	}

	items := Materialize(refs, testCatalog())

	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ProductID)
	assert.Equal(t, "a", items[1].ProductID)
}

func TestMaterialize_EmptyInputs(t *testing.T) {
	items := Materialize(nil, testCatalog())
	require.NotNil(t, items)
	assert.Empty(t, items)

	items = Materialize([]domain.CartReference{}, testCatalog())
	assert.Empty(t, items)

	items = Materialize([]domain.CartReference{{ProductID: "a", Qty: 1}}, nil)
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestMaterialize_LengthMatchesKnownReferences(t *testing.T) {
	catalog := testCatalog()
	known := map[string]bool{"a": true, "b": true}

	cases := [][]domain.CartReference{
		{{ProductID: "a", Qty: 1}, {ProductID: "b", Qty: 1}},
		{{ProductID: "x", Qty: 1}, {ProductID: "y", Qty: 1}},
		{{ProductID: "a", Qty: 1}, {ProductID: "x", Qty: 0}, {ProductID: "b", Qty: 7}},
		{{ProductID: "a", Qty: 0}},
	}

	for _, refs := range cases {
		want := 0
		for _, r := range refs {
			if known[r.ProductID] {
				want++
			}
		}
		items := Materialize(refs, catalog)
		assert.LessOrEqual(t, len(items), len(refs))
		assert.Len(t, items, want)
	}
}

func TestTotalValue(t *testing.T) {
	assert.Equal(t, 0.0, TotalValue(nil))
	assert.Equal(t, 0.0, TotalValue([]domain.CartItem{}))

	items := Materialize([]domain.CartReference{
		{ProductID: "a", Qty: 2},
		{ProductID: "b", Qty: 3},
	}, testCatalog())
	assert.Equal(t, 80.0, TotalValue(items))
	assert.Equal(t, 5, ItemCount(items))
}

func TestTotalValue_StableAcrossCalls(t *testing.T) {
	refs := []domain.CartReference{{ProductID: "a", Qty: 2}, {ProductID: "b", Qty: 1}}
	catalog := testCatalog()

	first := TotalValue(Materialize(refs, catalog))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, TotalValue(Materialize(refs, catalog)))
	}
}

func TestContains(t *testing.T) {
	items := Materialize([]domain.CartReference{{ProductID: "a", Qty: 1}}, testCatalog())
	assert.True(t, Contains(items, "a"))
	assert.False(t, Contains(items, "b"))
}
