package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shopmill/admin-api/internal/domain/auth"
	apperrors "github.com/shopmill/admin-api/internal/errors"
)

// UserRepo provides database operations for admin users.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// FindAdminByEmail returns the admin user with the given email.
// The query is filtered to role='admin' so a storefront customer row can
// never satisfy the admin login path. Returns ErrUserNotFound when no row
// matches; callers must not distinguish that from a bad password.
func (r *UserRepo) FindAdminByEmail(ctx context.Context, email string) (auth.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	const query = `
		SELECT id, email, name, role, password_hash, created_at
		FROM users
		WHERE email = $1 AND role = 'admin'`

	var u auth.User
	err := r.DB.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, ErrUserNotFound
		}
		return auth.User{}, fmt.Errorf("find admin by email: %w", apperrors.MapDBError(err))
	}
	return u, nil
}

// Exists reports whether the principal still exists (any role).
func (r *UserRepo) Exists(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", apperrors.MapDBError(err))
	}
	return exists, nil
}

// CreateAdmin inserts an admin user. Used by the dev seeder and operator tooling.
func (r *UserRepo) CreateAdmin(ctx context.Context, email, name, passwordHash string) (auth.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return auth.User{}, errors.New("email is required")
	}
	if passwordHash == "" {
		return auth.User{}, errors.New("password hash is required")
	}

	u := auth.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		Role:         auth.RoleAdmin,
		PasswordHash: passwordHash,
		CreatedAt:    r.timeProvider.Now().UTC(),
	}

	const query = `
		INSERT INTO users (id, email, name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.DB.ExecContext(ctx, query,
		u.ID, u.Email, u.Name, u.Role, u.PasswordHash, u.CreatedAt); err != nil {
		return auth.User{}, fmt.Errorf("create admin user: %w", apperrors.MapDBError(err))
	}
	return u, nil
}
