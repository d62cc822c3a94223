// Package ports defines interfaces (hexagonal ports) for the services.
// Implementations live in internal/data and internal/adapters;
// orchestration in internal/service.
package ports

import (
	"context"

	domainauth "github.com/shopmill/admin-api/internal/domain/auth"
)

// UserRepository looks up stored admin users for the login path.
type UserRepository interface {
	// FindAdminByEmail returns the admin user with the given email.
	// Returns data.ErrUserNotFound when no admin row matches; the service
	// layer collapses that with a hash mismatch into one generic failure.
	FindAdminByEmail(ctx context.Context, email string) (domainauth.User, error)

	// Exists reports whether the principal still exists.
	Exists(ctx context.Context, userID string) (bool, error)
}

// Revalidator notifies the storefront that content changed.
type Revalidator interface {
	// Revalidate asks the storefront to rebuild the given paths.
	Revalidate(ctx context.Context, paths []string) error

	// Async dispatches revalidation in the background. Failures are logged,
	// never surfaced: catalog mutations must not fail because the storefront
	// is unreachable.
	Async(paths []string)
}
