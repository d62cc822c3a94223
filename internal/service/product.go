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

// ProductServiceOptions groups dependencies for ProductService.
type ProductServiceOptions struct {
	Repo        ports.ProductRepository
	Revalidator ports.Revalidator // Optional: nil disables storefront notification
	Logger      *slog.Logger
}

// ProductService provides business logic for catalog products. Mutations
// schedule asynchronous storefront revalidation; the admin response never
// waits on the storefront.
type ProductService struct {
	repo        ports.ProductRepository
	revalidator ports.Revalidator
	logger      *slog.Logger
}

// NewProductService constructs a new ProductService.
func NewProductService(opts ProductServiceOptions) (*ProductService, error) {
	if opts.Repo == nil {
		return nil, errors.New("product repository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService{
		repo:        opts.Repo,
		revalidator: opts.Revalidator,
		logger:      logger.With("component", "product_service"),
	}, nil
}

// Create creates a new product and notifies the storefront.
func (s *ProductService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, apperrors.Validation("create product request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	product, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.DebugContext(ctx, "product created", "id", product.ID, "slug", product.Slug)
	s.notify(productPaths(product.Slug))
	return product, nil
}

// GetByID retrieves a product by its ID.
func (s *ProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// List retrieves a page of products plus the total count.
func (s *ProductService) List(ctx context.Context, opts model.ProductsListOptions) ([]model.Product, int, error) {
	products, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// Update applies a partial update and notifies the storefront. When the slug
// changes both the old and new product pages are rebuilt.
func (s *ProductService) Update(ctx context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, apperrors.Validation("update product request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	product, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	paths := productPaths(product.Slug)
	if before.Slug != product.Slug {
		paths = append(paths, "/products/"+before.Slug)
	}
	s.logger.DebugContext(ctx, "product updated", "id", product.ID, "slug", product.Slug)
	s.notify(paths)
	return product, nil
}

// Delete removes a product and notifies the storefront.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.DebugContext(ctx, "product deleted", "id", id)
	s.notify(productPaths(product.Slug))
	return nil
}

func (s *ProductService) notify(paths []string) {
	if s.revalidator == nil {
		return
	}
	s.revalidator.Async(paths)
}

func productPaths(slug string) []string {
	return []string{"/products", "/products/" + slug}
}
