package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/product-catalog/internal/domain"
	"github.com/utafrali/product-catalog/internal/repository"
	"github.com/utafrali/product-catalog/pkg/database"
	apperrors "github.com/utafrali/product-catalog/pkg/errors"
)

// msgProductExists is returned when the (name, brand) pair is taken.
const msgProductExists = "this product already exist"

const nameBrandConstraint = "products_name_brand_key"

// productSelect reads a product together with its category.
const productSelect = `
		SELECT p.id, p.name, p.brand, p.price, p.inventory, p.description, p.category_id,
		       p.created_at, p.updated_at, c.id, c.name, c.created_at
		FROM products p
		JOIN categories c ON c.id = p.category_id`

// sortColumns maps listing sort fields to SQL expressions.
var sortColumns = map[string]string{
	domain.SortByID:          "p.id",
	domain.SortByName:        "p.name",
	domain.SortByBrand:       "p.brand",
	domain.SortByPrice:       "p.price",
	domain.SortByInventory:   "p.inventory",
	domain.SortByDescription: "p.description",
	domain.SortByCreatedAt:   "p.created_at",
	domain.SortByCategory:    "c.name",
}

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a product repository on db, which may be a
// pool or a transaction.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// Create inserts p and fills in its ID, stored price and timestamps.
// p.Category is kept as given by the caller.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (err error) {
	query := `
		INSERT INTO products (name, brand, price, inventory, description, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, price, created_at, updated_at`

	ctx, end := database.TraceQuery(ctx, "CreateProduct", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query,
		p.Name,
		p.Brand,
		p.Price,
		p.Inventory,
		p.Description,
		p.CategoryID,
	).Scan(&p.ID, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "insert product")
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (_ *domain.Product, err error) {
	query := productSelect + `
		WHERE p.id = $1`

	ctx, end := database.TraceQuery(ctx, "GetProductByID", query)
	defer func() { end(err) }()

	return scanOne(r.db.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a product and locks its row. Only meaningful
// inside a transaction.
func (r *ProductRepository) GetByIDForUpdate(ctx context.Context, id int64) (_ *domain.Product, err error) {
	query := productSelect + `
		WHERE p.id = $1
		FOR UPDATE OF p`

	ctx, end := database.TraceQuery(ctx, "GetProductByIDForUpdate", query)
	defer func() { end(err) }()

	return scanOne(r.db.QueryRow(ctx, query, id))
}

// List returns one page of products ordered by params.SortBy, ties broken by
// id, and the total number of products.
func (r *ProductRepository) List(ctx context.Context, params repository.ListParams) (_ []domain.Product, _ int64, err error) {
	column, ok := sortColumns[params.SortBy]
	if !ok {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf(
			"invalid sortBy %q: must be one of %s", params.SortBy, strings.Join(domain.ValidSortFields(), ", "),
		))
	}

	query := fmt.Sprintf(productSelect+`
		ORDER BY %s ASC, p.id ASC
		LIMIT $1 OFFSET $2`, column)

	ctx, end := database.TraceQuery(ctx, "ListProducts", query)
	defer func() { end(err) }()

	var total int64
	if err = r.db.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.db.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	products, err := scanAll(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Find returns the products matching every non-nil field of filter,
// ordered by id.
func (r *ProductRepository) Find(ctx context.Context, filter repository.ProductFilter) (_ []domain.Product, err error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Name != nil {
		conditions = append(conditions, fmt.Sprintf("p.name = $%d", argIndex))
		args = append(args, *filter.Name)
		argIndex++
	}

	if filter.Brand != nil {
		conditions = append(conditions, fmt.Sprintf("p.brand = $%d", argIndex))
		args = append(args, *filter.Brand)
		argIndex++
	}

	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("c.name = $%d", argIndex))
		args = append(args, *filter.Category)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}

	query := productSelect + whereClause + `
		ORDER BY p.id ASC`

	ctx, end := database.TraceQuery(ctx, "FindProducts", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	return scanAll(rows)
}

// ExistsByNameAndBrand reports whether a product with the given name and
// brand exists.
func (r *ProductRepository) ExistsByNameAndBrand(ctx context.Context, name, brand string) (exists bool, err error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE name = $1 AND brand = $2)`

	ctx, end := database.TraceQuery(ctx, "ExistsProductByNameAndBrand", query)
	defer func() { end(err) }()

	if err = r.db.QueryRow(ctx, query, name, brand).Scan(&exists); err != nil {
		return false, fmt.Errorf("check product exists: %w", err)
	}
	return exists, nil
}

// CountByBrandAndName counts the products with the given brand and name.
func (r *ProductRepository) CountByBrandAndName(ctx context.Context, brand, name string) (count int64, err error) {
	query := `SELECT count(*) FROM products WHERE brand = $1 AND name = $2`

	ctx, end := database.TraceQuery(ctx, "CountProductsByBrandAndName", query)
	defer func() { end(err) }()

	if err = r.db.QueryRow(ctx, query, brand, name).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// Update overwrites every mutable column of p and refreshes p.Price and
// p.UpdatedAt from the stored row.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (err error) {
	query := `
		UPDATE products
		SET name = $1, brand = $2, price = $3, inventory = $4, description = $5,
		    category_id = $6, updated_at = now()
		WHERE id = $7
		RETURNING price, updated_at`

	ctx, end := database.TraceQuery(ctx, "UpdateProduct", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query,
		p.Name,
		p.Brand,
		p.Price,
		p.Inventory,
		p.Description,
		p.CategoryID,
		p.ID,
	).Scan(&p.Price, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("product")
		}
		return mapWriteError(err, "update product")
	}

	return nil
}

// Delete removes a product by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id int64) (err error) {
	query := `DELETE FROM products WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteProduct", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product")
	}

	return nil
}

// mapWriteError translates constraint violations raised by INSERT and UPDATE.
// Only the (name, brand) unique constraint is a client conflict; any other
// unique violation is returned as an internal error.
func mapWriteError(err error, op string) error {
	switch {
	case database.IsUniqueViolation(err):
		if c := database.ConstraintName(err); c != "" && c != nameBrandConstraint {
			return fmt.Errorf("%s: unique violation on %s: %w", op, c, err)
		}
		return apperrors.AlreadyExists(msgProductExists)
	case database.IsForeignKeyViolation(err):
		return apperrors.ResourceNotFound("category")
	case database.IsCheckViolation(err), database.IsNumericOutOfRange(err):
		return apperrors.InvalidInput("price or inventory out of range")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p domain.Product
		c domain.Category
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Brand,
		&p.Price,
		&p.Inventory,
		&p.Description,
		&p.CategoryID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&c.ID,
		&c.Name,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Category = &c
	return &p, nil
}

func scanOne(row pgx.Row) (*domain.Product, error) {
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product")
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return p, nil
}

func scanAll(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}
