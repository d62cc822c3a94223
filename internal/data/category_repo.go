package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shopmill/admin-api/internal/domain/model"
	apperrors "github.com/shopmill/admin-api/internal/errors"
)

// CategoryRepo provides database operations for product categories.
type CategoryRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCategoryRepo creates a new CategoryRepo with real time provider.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create inserts a new category.
func (r *CategoryRepo) Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	if req == nil {
		return nil, errors.New("create category request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.ValidationField("category", err.Error())
	}

	c := model.Category{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Slug:      req.Slug,
		CreatedAt: r.timeProvider.Now().UTC(),
	}

	const query = `
		INSERT INTO categories (id, name, slug, created_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.DB.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.CreatedAt); err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return nil, ErrCategorySlugExists
		}
		return nil, fmt.Errorf("create category: %w", mapped)
	}
	return &c, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	const query = `SELECT id, name, slug, created_at FROM categories ORDER BY name ASC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if scanErr := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("scan category: %w", scanErr)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// Delete removes a category. Categories with products cannot be deleted;
// products must be moved or removed first.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsValidation(mapped) {
			return ErrCategoryInUse
		}
		return fmt.Errorf("delete category: %w", mapped)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
