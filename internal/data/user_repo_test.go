package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmill/admin-api/internal/domain/auth"
	"github.com/shopmill/admin-api/internal/testutil"
)

func TestUserRepo_CreateAdmin_FindAdminByEmail(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		created, err := repo.CreateAdmin(ctx, "Ops@Example.com", "Ops Admin", "bcrypt-hash")
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.Equal(t, "ops@example.com", created.Email)
		assert.Equal(t, auth.RoleAdmin, created.Role)
		assert.WithinDuration(t, time.Now(), created.CreatedAt, 5*time.Second)

		// lookup normalizes case and whitespace the same way
		found, err := repo.FindAdminByEmail(ctx, "  OPS@example.COM ")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "bcrypt-hash", found.PasswordHash)
	})
}

func TestUserRepo_FindAdminByEmail_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)

		_, err := repo.FindAdminByEmail(context.Background(), "nobody@example.com")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepo_FindAdminByEmail_IgnoresClientRows(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		// A storefront customer row must never satisfy the admin login lookup.
		const insert = `
			INSERT INTO users (id, email, name, role, password_hash, created_at)
			VALUES ($1, $2, $3, 'client', $4, NOW())`
		_, err := db.ExecContext(ctx, insert,
			"11111111-1111-1111-1111-111111111111", "shopper@example.com", "Shopper", "hash")
		require.NoError(t, err)

		_, err = repo.FindAdminByEmail(ctx, "shopper@example.com")
		require.ErrorIs(t, err, ErrUserNotFound)

		// Exists checks identity, not role.
		exists, err := repo.Exists(ctx, "11111111-1111-1111-1111-111111111111")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestUserRepo_CreateAdmin_DuplicateEmail(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		_, err := repo.CreateAdmin(ctx, "dup@example.com", "First", "hash-1")
		require.NoError(t, err)

		_, err = repo.CreateAdmin(ctx, "dup@example.com", "Second", "hash-2")
		require.Error(t, err)
	})
}

func TestUserRepo_CreateAdmin_RequiresEmailAndHash(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		_, err := repo.CreateAdmin(ctx, "  ", "No Email", "hash")
		require.Error(t, err)

		_, err = repo.CreateAdmin(ctx, "nohash@example.com", "No Hash", "")
		require.Error(t, err)
	})
}

func TestUserRepo_Exists_Missing(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)

		exists, err := repo.Exists(context.Background(), "22222222-2222-2222-2222-222222222222")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
