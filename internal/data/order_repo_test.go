package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmill/admin-api/internal/domain/model"
	"github.com/shopmill/admin-api/internal/testutil"
)

// insertTestOrder writes an order row directly; the repository deliberately
// exposes no create operation because orders originate from the storefront.
func insertTestOrder(t *testing.T, db *sql.DB, email string, total int64, status model.OrderStatus) string {
	t.Helper()
	id := uuid.New().String()
	const insert = `
		INSERT INTO orders (id, customer_email, total_cents, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())`
	_, err := db.ExecContext(context.Background(), insert, id, email, total, status)
	require.NoError(t, err)
	return id
}

func TestOrderRepo_GetByID(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewOrderRepo(db)

		id := insertTestOrder(t, db, "casey@example.com", 4300, model.OrderStatusPending)

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "casey@example.com", got.CustomerEmail)
		assert.Equal(t, int64(4300), got.TotalCents)
		assert.Equal(t, model.OrderStatusPending, got.Status)

		_, err = repo.GetByID(ctx, uuid.New().String())
		require.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderRepo_List_StatusFilter(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewOrderRepo(db)

		insertTestOrder(t, db, "a@example.com", 1000, model.OrderStatusPending)
		insertTestOrder(t, db, "b@example.com", 2000, model.OrderStatusPaid)
		insertTestOrder(t, db, "c@example.com", 3000, model.OrderStatusPaid)

		all, total, err := repo.List(ctx, model.OrdersListOptions{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, all, 3)

		paid := model.OrderStatusPaid
		filtered, total, err := repo.List(ctx, model.OrdersListOptions{Status: &paid})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, filtered, 2)
		for _, o := range filtered {
			assert.Equal(t, model.OrderStatusPaid, o.Status)
		}

		page, total, err := repo.List(ctx, model.OrdersListOptions{Limit: 1, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, page, 1)
	})
}

func TestOrderRepo_UpdateStatus(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewOrderRepo(db)

		id := insertTestOrder(t, db, "jordan@example.com", 1800, model.OrderStatusPaid)

		updated, err := repo.UpdateStatus(ctx, id, model.OrderStatusShipped)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusShipped, updated.Status)
		assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

		_, err = repo.UpdateStatus(ctx, uuid.New().String(), model.OrderStatusShipped)
		require.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderRepo_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewOrderRepo(db)

		id := insertTestOrder(t, db, "riley@example.com", 900, model.OrderStatusPending)

		_, err := repo.UpdateStatus(context.Background(), id, model.OrderStatus("mailed"))
		require.Error(t, err)

		got, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPending, got.Status)
	})
}
