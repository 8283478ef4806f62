package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The (Name, Brand) pair is unique.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory"`
	Description string          `json:"description"`
	CategoryID  int64           `json:"categoryId"`
	Category    *Category       `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Prices are stored as NUMERIC(12, 2).
const PriceScale = 2

// MaxPrice is the largest price the price column can hold.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// Sort fields accepted by the product listing.
const (
	SortByID          = "id"
	SortByName        = "name"
	SortByBrand       = "brand"
	SortByPrice       = "price"
	SortByInventory   = "inventory"
	SortByDescription = "description"
	SortByCreatedAt   = "createdAt"
	SortByCategory    = "category"
)

// DefaultSortField orders listings when the caller gives none.
const DefaultSortField = SortByName

// ValidSortFields returns the fields a product listing can be ordered by.
func ValidSortFields() []string {
	return []string{
		SortByID,
		SortByName,
		SortByBrand,
		SortByPrice,
		SortByInventory,
		SortByDescription,
		SortByCreatedAt,
		SortByCategory,
	}
}

// IsValidSortField reports whether field is one of ValidSortFields.
func IsValidSortField(field string) bool {
	for _, f := range ValidSortFields() {
		if f == field {
			return true
		}
	}
	return false
}
