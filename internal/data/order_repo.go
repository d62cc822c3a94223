package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopmill/admin-api/internal/domain/model"
	apperrors "github.com/shopmill/admin-api/internal/errors"
)

// OrderRepo provides database operations for storefront orders.
// Orders are created by the storefront; the admin side reads them and
// advances their status.
type OrderRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewOrderRepo creates a new OrderRepo with real time provider.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

const orderColumns = `id, customer_email, total_cents, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	if err := row.Scan(&o.ID, &o.CustomerEmail, &o.TotalCents, &o.Status,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID returns an order by ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", apperrors.MapDBError(err))
	}
	return o, nil
}

// List returns a page of orders plus the total count for pagination.
func (r *OrderRepo) List(ctx context.Context, opts model.OrdersListOptions) ([]model.Order, int, error) {
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
	if opts.Status != nil {
		where = append(where, "status = "+arg(*opts.Status))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", apperrors.MapDBError(err))
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + cond +
		` ORDER BY created_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, 0, fmt.Errorf("scan order: %w", scanErr)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus advances an order to the given status.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, apperrors.ValidationField("status", fmt.Sprintf("unknown order status %q", status))
	}

	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 RETURNING ` + orderColumns

	o, err := scanOrder(r.DB.QueryRowContext(ctx, query, status, r.timeProvider.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", apperrors.MapDBError(err))
	}
	return o, nil
}
