package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/shopmill/admin-api/internal/errors"
	"github.com/shopmill/admin-api/internal/domain/model"
	"github.com/shopmill/admin-api/internal/ports"
)

// CategoryServiceOptions groups dependencies for CategoryService.
type CategoryServiceOptions struct {
	Repo        ports.CategoryRepository
	Revalidator ports.Revalidator // Optional: nil disables storefront notification
	Logger      *slog.Logger
}

// CategoryService provides business logic for product categories.
type CategoryService struct {
	repo        ports.CategoryRepository
	revalidator ports.Revalidator
	logger      *slog.Logger
}

// NewCategoryService constructs a new CategoryService.
func NewCategoryService(opts CategoryServiceOptions) (*CategoryService, error) {
	if opts.Repo == nil {
		return nil, errors.New("category repository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryService{
		repo:        opts.Repo,
		revalidator: opts.Revalidator,
		logger:      logger.With("component", "category_service"),
	}, nil
}

// Create creates a new category and notifies the storefront, since category
// changes affect navigation on every product listing page.
func (s *CategoryService) Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	if req == nil {
		return nil, apperrors.Validation("create category request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	category, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.DebugContext(ctx, "category created", "id", category.ID, "slug", category.Slug)
	s.notify()
	return category, nil
}

// List retrieves all categories.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Delete removes a category and notifies the storefront. Deleting a
// category that still has products fails with a validation error.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.logger.DebugContext(ctx, "category deleted", "id", id)
	s.notify()
	return nil
}

func (s *CategoryService) notify() {
	if s.revalidator == nil {
		return
	}
	s.revalidator.Async([]string{"/products", "/categories"})
}
