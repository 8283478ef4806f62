package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryView is the category as embedded in product responses.
type CategoryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductListItem is the product shape used by list and filter responses.
type ProductListItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory"`
	Description string          `json:"description"`
	Category    *CategoryView   `json:"category"`
}

// ProductDetail is the single-product shape: the list fields plus timestamps.
type ProductDetail struct {
	ProductListItem
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newCategoryView(p Product) *CategoryView {
	if p.Category != nil {
		return &CategoryView{ID: p.Category.ID, Name: p.Category.Name}
	}
	if p.CategoryID != 0 {
		return &CategoryView{ID: p.CategoryID}
	}
	return nil
}

// NewProductListItem maps a product to its list view.
func NewProductListItem(p Product) ProductListItem {
	return ProductListItem{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price,
		Inventory:   p.Inventory,
		Description: p.Description,
		Category:    newCategoryView(p),
	}
}

// NewProductListItems maps products in order. The result is never nil.
func NewProductListItems(products []Product) []ProductListItem {
	items := make([]ProductListItem, 0, len(products))
	for _, p := range products {
		items = append(items, NewProductListItem(p))
	}
	return items
}

// NewProductDetail maps a product to its detail view.
func NewProductDetail(p Product) ProductDetail {
	return ProductDetail{
		ProductListItem: NewProductListItem(p),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// NewProductUpdateResult maps an updated product to the response of the
// update endpoint, which uses the list shape.
func NewProductUpdateResult(p Product) ProductListItem {
	return NewProductListItem(p)
}
