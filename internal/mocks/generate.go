// Package mocks provides mock implementations for testing the admin API services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockProductRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(product, nil)
package mocks

// Generate mock for UserRepository interface from internal/ports package.
// This creates MockUserRepository with methods for all UserRepository interface methods:
// FindAdminByEmail, Exists
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/shopmill/admin-api/internal/ports UserRepository

// Generate mock for Revalidator interface from internal/ports package.
// This creates MockRevalidator with methods for all Revalidator interface methods:
// Revalidate, Async
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=revalidator_mock.go github.com/shopmill/admin-api/internal/ports Revalidator

// Generate mock for ProductRepository interface from internal/ports package.
// This creates MockProductRepository with methods for all ProductRepository interface methods:
// Create, GetByID, List, Update, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=product_repository_mock.go github.com/shopmill/admin-api/internal/ports ProductRepository

// Generate mock for CategoryRepository interface from internal/ports package.
// This creates MockCategoryRepository with methods for all CategoryRepository interface methods:
// Create, List, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=category_repository_mock.go github.com/shopmill/admin-api/internal/ports CategoryRepository

// Generate mock for OrderRepository interface from internal/ports package.
// This creates MockOrderRepository with methods for all OrderRepository interface methods:
// GetByID, List, UpdateStatus
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=order_repository_mock.go github.com/shopmill/admin-api/internal/ports OrderRepository
