package ports

import (
	"context"

	"github.com/shopmill/admin-api/internal/domain/model"
)

// ProductRepository persists catalog products.
type ProductRepository interface {
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, opts model.ProductsListOptions) ([]model.Product, int, error)
	Update(ctx context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}

// CategoryRepository persists product categories.
type CategoryRepository interface {
	Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Delete(ctx context.Context, id string) error
}

// OrderRepository reads and updates storefront orders.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, opts model.OrdersListOptions) ([]model.Order, int, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
}
