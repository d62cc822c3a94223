package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrUserNotFound is returned when no matching admin user exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductSlugExists is returned on a duplicate product slug.
	ErrProductSlugExists = errors.New("product slug already exists")

	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategorySlugExists is returned on a duplicate category slug.
	ErrCategorySlugExists = errors.New("category slug already exists")
	// ErrCategoryInUse is returned when deleting a category that still has products.
	ErrCategoryInUse = errors.New("category still has products")

	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
)
