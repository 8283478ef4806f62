package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Sort field validation
// ============================================================================

func TestValidSortFields_ContainsAll(t *testing.T) {
	expected := []string{
		SortByID, SortByName, SortByBrand, SortByPrice,
		SortByInventory, SortByDescription, SortByCreatedAt, SortByCategory,
	}
	assert.ElementsMatch(t, expected, ValidSortFields())
}

func TestIsValidSortField(t *testing.T) {
	for _, f := range ValidSortFields() {
		assert.True(t, IsValidSortField(f), "expected %q to be valid", f)
	}

	assert.False(t, IsValidSortField(""))
	assert.False(t, IsValidSortField("NAME"))
	assert.False(t, IsValidSortField("name; DROP TABLE products"))
	assert.False(t, IsValidSortField("created_at"))
}

func TestDefaultSortField_IsValid(t *testing.T) {
	assert.Equal(t, "name", DefaultSortField)
	assert.True(t, IsValidSortField(DefaultSortField))
}

// ============================================================================
// Mapping
// ============================================================================

func sampleProduct() Product {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return Product{
		ID:          7,
		Name:        "iPhone 15",
		Brand:       "Apple",
		Price:       decimal.RequireFromString("999.99"),
		Inventory:   12,
		Description: "Smartphone",
		CategoryID:  3,
		Category:    &Category{ID: 3, Name: "Phones", CreatedAt: created},
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Hour),
	}
}

func TestNewProductListItem_CopiesFields(t *testing.T) {
	p := sampleProduct()
	item := NewProductListItem(p)

	assert.Equal(t, int64(7), item.ID)
	assert.Equal(t, "iPhone 15", item.Name)
	assert.Equal(t, "Apple", item.Brand)
	assert.True(t, p.Price.Equal(item.Price))
	assert.Equal(t, 12, item.Inventory)
	assert.Equal(t, "Smartphone", item.Description)
	assert.Equal(t, &CategoryView{ID: 3, Name: "Phones"}, item.Category)
}

func TestNewProductListItem_CategoryFallbacks(t *testing.T) {
	p := sampleProduct()
	p.Category = nil
	assert.Equal(t, &CategoryView{ID: 3}, NewProductListItem(p).Category)

	p.CategoryID = 0
	assert.Nil(t, NewProductListItem(p).Category)
}

func TestNewProductListItems_PreservesOrder(t *testing.T) {
	a, b := sampleProduct(), sampleProduct()
	b.ID, b.Name = 8, "Galaxy S24"

	items := NewProductListItems([]Product{a, b})

	require.Len(t, items, 2)
	assert.Equal(t, int64(7), items[0].ID)
	assert.Equal(t, int64(8), items[1].ID)
}

func TestNewProductListItems_EmptyIsNotNil(t *testing.T) {
	items := NewProductListItems(nil)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestNewProductDetail_IncludesTimestamps(t *testing.T) {
	p := sampleProduct()
	detail := NewProductDetail(p)

	assert.Equal(t, NewProductListItem(p), detail.ProductListItem)
	assert.Equal(t, p.CreatedAt, detail.CreatedAt)
	assert.Equal(t, p.UpdatedAt, detail.UpdatedAt)
}

func TestNewProductUpdateResult_UsesListShape(t *testing.T) {
	p := sampleProduct()
	assert.Equal(t, NewProductListItem(p), NewProductUpdateResult(p))
}

func TestProductDetail_JSONShape(t *testing.T) {
	data, err := json.Marshal(NewProductDetail(sampleProduct()))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	assert.EqualValues(t, 7, out["id"])
	assert.Equal(t, "999.99", out["price"])
	assert.Equal(t, map[string]any{"id": float64(3), "name": "Phones"}, out["category"])
	assert.Equal(t, "2025-03-01T10:00:00Z", out["createdAt"])
	assert.Contains(t, out, "updatedAt")
	assert.NotContains(t, out, "category_id")
}

func TestProductListItem_JSONOmitsTimestamps(t *testing.T) {
	data, err := json.Marshal(NewProductListItem(sampleProduct()))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.NotContains(t, out, "createdAt")
	assert.NotContains(t, out, "updatedAt")
}

func TestCategory_JSONUsesCamelCase(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	data, err := json.Marshal(Category{ID: 3, Name: "Phones", CreatedAt: created})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":3,"name":"Phones","createdAt":"2025-03-01T10:00:00Z"}`, string(data))
}

func TestMaxPrice_FitsPriceScale(t *testing.T) {
	assert.True(t, MaxPrice.Equal(MaxPrice.Truncate(PriceScale)))
	assert.Equal(t, "9999999999.99", MaxPrice.String())
}
