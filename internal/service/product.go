package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/utafrali/product-catalog/internal/domain"
	"github.com/utafrali/product-catalog/internal/repository"
	apperrors "github.com/utafrali/product-catalog/pkg/errors"
	"github.com/utafrali/product-catalog/pkg/pagination"
)

// MsgProductExists is the conflict message for a duplicate (name, brand).
const MsgProductExists = "this product already exist"

// ProductService implements the business logic for product operations.
type ProductService struct {
	repos  repository.Repositories
	tx     repository.Transactor
	logger *slog.Logger
}

// NewProductService creates a new product service. repos serves reads and
// single-statement writes; tx runs the multi-step add and update flows.
func NewProductService(repos repository.Repositories, tx repository.Transactor, logger *slog.Logger) *ProductService {
	return &ProductService{
		repos:  repos,
		tx:     tx,
		logger: logger,
	}
}

// AddProductInput holds the parameters for adding a product.
type AddProductInput struct {
	Name         string
	Brand        string
	Price        decimal.Decimal
	Inventory    int
	Description  string
	CategoryName string
}

// UpdateProductInput holds the parameters for updating a product. Every field
// except CategoryName overwrites the stored value; a nil CategoryName keeps
// the current category.
type UpdateProductInput struct {
	Name         string
	Brand        string
	Price        decimal.Decimal
	Inventory    int
	Description  string
	CategoryName *string
}

func validateFields(name, brand string, price decimal.Decimal, inventory int) error {
	switch {
	case strings.TrimSpace(name) == "":
		return apperrors.InvalidInput("product name is required")
	case strings.TrimSpace(brand) == "":
		return apperrors.InvalidInput("product brand is required")
	case price.IsNegative():
		return apperrors.InvalidInput("price must not be negative")
	case !price.Equal(price.Truncate(domain.PriceScale)):
		return apperrors.InvalidInput(fmt.Sprintf("price must have at most %d decimal places", domain.PriceScale))
	case price.GreaterThan(domain.MaxPrice):
		return apperrors.InvalidInput("price must be at most " + domain.MaxPrice.StringFixed(domain.PriceScale))
	case inventory < 0:
		return apperrors.InvalidInput("inventory must not be negative")
	}
	return nil
}

// AddProduct creates a product. The category is looked up by name and created
// when missing; the check, category resolution and insert share one
// transaction.
func (s *ProductService) AddProduct(ctx context.Context, input *AddProductInput) (*domain.Product, error) {
	if err := validateFields(input.Name, input.Brand, input.Price, input.Inventory); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.CategoryName) == "" {
		return nil, apperrors.InvalidInput("category name is required")
	}

	product := &domain.Product{
		Name:        input.Name,
		Brand:       input.Brand,
		Price:       input.Price,
		Inventory:   input.Inventory,
		Description: input.Description,
	}

	var createdCategory bool
	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		exists, err := repos.Products.ExistsByNameAndBrand(ctx, input.Name, input.Brand)
		if err != nil {
			return fmt.Errorf("check product exists: %w", err)
		}
		if exists {
			return apperrors.AlreadyExists(MsgProductExists)
		}

		category, err := repos.Categories.FindByName(ctx, input.CategoryName)
		if err != nil {
			return fmt.Errorf("find category: %w", err)
		}
		if category == nil {
			category, err = repos.Categories.Create(ctx, input.CategoryName)
			if err != nil {
				return fmt.Errorf("create category: %w", err)
			}
			createdCategory = true
		}

		product.CategoryID = category.ID
		product.Category = category

		if err := repos.Products.Create(ctx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.Int64("category_id", product.CategoryID),
		slog.Bool("category_created", createdCategory),
	)

	return product, nil
}

// GetAllProducts returns one page of products ordered ascending by
// params.SortBy.
func (s *ProductService) GetAllProducts(ctx context.Context, params pagination.Params) (pagination.Page[domain.Product], error) {
	if params.SortBy == "" {
		params.SortBy = domain.DefaultSortField
	}
	if !domain.IsValidSortField(params.SortBy) {
		return pagination.Page[domain.Product]{}, apperrors.InvalidInput(fmt.Sprintf(
			"invalid sortBy %q: must be one of %s", params.SortBy, strings.Join(domain.ValidSortFields(), ", "),
		))
	}
	if params.Page < 0 || params.Size < 1 {
		return pagination.Page[domain.Product]{}, apperrors.InvalidInput("page must be non-negative and size positive")
	}

	products, total, err := s.repos.Products.List(ctx, repository.ListParams{
		Offset: params.Offset(),
		Limit:  params.Size,
		SortBy: params.SortBy,
	})
	if err != nil {
		return pagination.Page[domain.Product]{}, fmt.Errorf("list products: %w", err)
	}

	return pagination.NewPage(products, params, total), nil
}

// GetProductByID retrieves a product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// DeleteProductByID removes a product.
func (s *ProductService) DeleteProductByID(ctx context.Context, id int64) error {
	if err := s.repos.Products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.Int64("product_id", id))
	return nil
}

// UpdateProduct overwrites a product's fields under a row lock. A named
// category must already exist.
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput, id int64) (*domain.Product, error) {
	if err := validateFields(input.Name, input.Brand, input.Price, input.Inventory); err != nil {
		return nil, err
	}

	var product *domain.Product
	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		p, err := repos.Products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock product: %w", err)
		}

		p.Name = input.Name
		p.Brand = input.Brand
		p.Price = input.Price
		p.Inventory = input.Inventory
		p.Description = input.Description

		if input.CategoryName != nil {
			category, err := repos.Categories.FindByName(ctx, *input.CategoryName)
			if err != nil {
				return fmt.Errorf("find category: %w", err)
			}
			if category == nil {
				return apperrors.ResourceNotFound("category")
			}
			p.CategoryID = category.ID
			p.Category = category
		}

		if err := repos.Products.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}

		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.Int64("product_id", product.ID),
		slog.Int64("category_id", product.CategoryID),
	)

	return product, nil
}

// GetProductsByCategory returns the products in the named category.
func (s *ProductService) GetProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.find(ctx, repository.ProductFilter{Category: &category})
}

// GetProductsByBrand returns the products of a brand.
func (s *ProductService) GetProductsByBrand(ctx context.Context, brand string) ([]domain.Product, error) {
	return s.find(ctx, repository.ProductFilter{Brand: &brand})
}

// GetProductsByCategoryAndBrand returns the products of a brand within the
// named category.
func (s *ProductService) GetProductsByCategoryAndBrand(ctx context.Context, category, brand string) ([]domain.Product, error) {
	return s.find(ctx, repository.ProductFilter{Category: &category, Brand: &brand})
}

// GetProductsByName returns the products with exactly this name.
func (s *ProductService) GetProductsByName(ctx context.Context, name string) ([]domain.Product, error) {
	return s.find(ctx, repository.ProductFilter{Name: &name})
}

// GetProductsByBrandAndName returns the products matching both brand and name.
func (s *ProductService) GetProductsByBrandAndName(ctx context.Context, brand, name string) ([]domain.Product, error) {
	return s.find(ctx, repository.ProductFilter{Brand: &brand, Name: &name})
}

// CountProductsByBrandAndName counts the products matching both brand and name.
func (s *ProductService) CountProductsByBrandAndName(ctx context.Context, brand, name string) (int64, error) {
	count, err := s.repos.Products.CountByBrandAndName(ctx, brand, name)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// ListCategories returns every category ordered by name.
func (s *ProductService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repos.Categories.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *ProductService) find(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	products, err := s.repos.Products.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return products, nil
}
