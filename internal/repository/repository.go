package repository

import (
	"context"

	"github.com/utafrali/product-catalog/internal/domain"
)

// ProductFilter selects products by exact match on any combination of its
// non-nil fields. Category matches the category name.
type ProductFilter struct {
	Name     *string
	Brand    *string
	Category *string
}

// ListParams pages and orders a product listing. SortBy must be one of
// domain.ValidSortFields.
type ListParams struct {
	Offset int
	Limit  int
	SortBy string
}

// ProductRepository defines product persistence. Every product it returns
// has Category loaded.
type ProductRepository interface {
	// Create inserts product and sets its ID and timestamps.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID returns apperrors.NotFound("product") when absent.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// GetByIDForUpdate is GetByID holding a row lock until the surrounding
	// transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error)

	// List returns one ordered page and the total number of products.
	List(ctx context.Context, params ListParams) ([]domain.Product, int64, error)

	// Find returns all products matching filter ordered by id.
	Find(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// ExistsByNameAndBrand reports whether a product with the pair exists.
	ExistsByNameAndBrand(ctx context.Context, name, brand string) (bool, error)

	// CountByBrandAndName counts products with the given brand and name.
	CountByBrandAndName(ctx context.Context, brand, name string) (int64, error)

	// Update persists every mutable field of product.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product, returning apperrors.NotFound("product") when absent.
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository defines category persistence.
type CategoryRepository interface {
	// FindByName returns the category, or nil and no error when absent.
	FindByName(ctx context.Context, name string) (*domain.Category, error)

	// Create inserts a category by name, returning the existing row when a
	// concurrent writer created it first.
	Create(ctx context.Context, name string) (*domain.Category, error)

	// ListAll returns every category ordered by name.
	ListAll(ctx context.Context) ([]domain.Category, error)
}

// Repositories bundles the repositories bound to one connection or transaction.
type Repositories struct {
	Products   ProductRepository
	Categories CategoryRepository
}

// Transactor runs fn with repositories bound to a single database
// transaction. The transaction commits when fn returns nil and rolls back
// otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
