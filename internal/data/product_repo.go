package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shopmill/admin-api/internal/domain/model"
	apperrors "github.com/shopmill/admin-api/internal/errors"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ProductRepo provides database operations for catalog products.
type ProductRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewProductRepo creates a new ProductRepo with real time provider.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewProductRepoWithTimeProvider creates a new ProductRepo with a custom time provider (useful for tests).
func NewProductRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ProductRepo {
	return &ProductRepo{DB: db, timeProvider: tp}
}

const productColumns = `id, name, slug, description, price_cents, stock, category_id, published, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*model.Product, error) {
	var p model.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.PriceCents,
		&p.Stock, &p.CategoryID, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new product.
func (r *ProductRepo) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, errors.New("create product request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.ValidationField("product", err.Error())
	}

	now := r.timeProvider.Now().UTC()
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + productColumns

	row := r.DB.QueryRowContext(ctx, query,
		uuid.New().String(), req.Name, req.Slug, req.Description,
		req.PriceCents, req.Stock, req.CategoryID, req.Published, now, now)

	p, err := scanProduct(row)
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return nil, ErrProductSlugExists
		}
		return nil, fmt.Errorf("create product: %w", mapped)
	}
	return p, nil
}

// GetByID returns a product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", apperrors.MapDBError(err))
	}
	return p, nil
}

// List returns a page of products plus the total count for pagination.
func (r *ProductRepo) List(ctx context.Context, opts model.ProductsListOptions) ([]model.Product, int, error) {
	limit := opts.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	where := []string{"TRUE"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		where = append(where, "name ILIKE "+arg("%"+strings.TrimSpace(*opts.Q)+"%"))
	}
	if opts.CategoryID != nil {
		where = append(where, "category_id = "+arg(*opts.CategoryID))
	}
	if opts.Published != nil {
		where = append(where, "published = "+arg(*opts.Published))
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE ` + cond
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", apperrors.MapDBError(err))
	}

	listQuery := `SELECT ` + productColumns + ` FROM products WHERE ` + cond +
		` ORDER BY created_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)

	rows, err := r.DB.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, 0, fmt.Errorf("scan product: %w", scanErr)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}
	return products, total, nil
}

// Update applies the non-nil fields of the request to the product.
func (r *ProductRepo) Update(ctx context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, errors.New("update product request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.ValidationField("product", err.Error())
	}

	set := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if req.Name != nil {
		set = append(set, "name = "+arg(*req.Name))
	}
	if req.Slug != nil {
		set = append(set, "slug = "+arg(*req.Slug))
	}
	if req.Description != nil {
		set = append(set, "description = "+arg(*req.Description))
	}
	if req.PriceCents != nil {
		set = append(set, "price_cents = "+arg(*req.PriceCents))
	}
	if req.Stock != nil {
		set = append(set, "stock = "+arg(*req.Stock))
	}
	if req.CategoryID != nil {
		set = append(set, "category_id = "+arg(*req.CategoryID))
	}
	if req.Published != nil {
		set = append(set, "published = "+arg(*req.Published))
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set = append(set, "updated_at = "+arg(r.timeProvider.Now().UTC()))

	query := `UPDATE products SET ` + strings.Join(set, ", ") +
		` WHERE id = ` + arg(id) + ` RETURNING ` + productColumns

	p, err := scanProduct(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return nil, ErrProductSlugExists
		}
		return nil, fmt.Errorf("update product: %w", mapped)
	}
	return p, nil
}

// Delete removes a product.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", apperrors.MapDBError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
