package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopmill/admin-api/internal/domain/model"
	"github.com/shopmill/admin-api/internal/ports"
)

// OrderServiceOptions groups dependencies for OrderService.
type OrderServiceOptions struct {
	Repo   ports.OrderRepository
	Logger *slog.Logger
}

// OrderService provides the admin-side view of storefront orders. Orders are
// created by the storefront; the admin only reads them and advances status,
// so no storefront revalidation is involved.
type OrderService struct {
	repo   ports.OrderRepository
	logger *slog.Logger
}

// NewOrderService constructs a new OrderService.
func NewOrderService(opts OrderServiceOptions) (*OrderService, error) {
	if opts.Repo == nil {
		return nil, errors.New("order repository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		repo:   opts.Repo,
		logger: logger.With("component", "order_service"),
	}, nil
}

// GetByID retrieves an order by its ID.
func (s *OrderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// List retrieves a page of orders plus the total count.
func (s *OrderService) List(ctx context.Context, opts model.OrdersListOptions) ([]model.Order, int, error) {
	orders, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus advances an order to the given status.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	order, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	s.logger.InfoContext(ctx, "order status updated", "id", id, "status", status)
	return order, nil
}
