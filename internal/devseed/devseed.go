// Package devseed populates a development database with an admin login and
// a small sample catalog so the admin panel is usable immediately after
// `docker compose up`. Seeding is idempotent: existing rows are left alone.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopmill/admin-api/config"
	"github.com/shopmill/admin-api/internal/data"
	"github.com/shopmill/admin-api/internal/domain/model"
)

// Dev-only credentials. Never enabled outside ENVIRONMENT=dev.
const (
	adminEmail    = "admin@shopmill.dev"
	adminName     = "Dev Admin"
	adminPassword = "admin-dev-password"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB         *sql.DB
	users      *data.UserRepo
	categories *data.CategoryRepo
	products   *data.ProductRepo
	login      config.LoginConfig
}

// NewServices constructs the repositories used for seeding.
func NewServices(db *sql.DB, login config.LoginConfig) Services {
	return Services{
		DB:         db,
		users:      data.NewUserRepo(db),
		categories: data.NewCategoryRepo(db),
		products:   data.NewProductRepo(db),
		login:      login,
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if err := seedAdmin(ctx, svcs, logger); err != nil {
		return err
	}

	failures := 0
	categoryIDs := seedCategories(ctx, svcs, logger, &failures)
	seedProducts(ctx, svcs, logger, categoryIDs, &failures)
	seedOrders(ctx, svcs.DB, logger, &failures)

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

// seedAdmin ensures the dev admin login exists. An admin is a hard
// requirement: without one the panel cannot be entered at all.
func seedAdmin(ctx context.Context, svcs Services, logger *slog.Logger) error {
	_, err := svcs.users.FindAdminByEmail(ctx, adminEmail)
	if err == nil {
		logger.InfoContext(ctx, "dev admin already exists", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, data.ErrUserNotFound) {
		return fmt.Errorf("look up dev admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), svcs.login.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash dev admin password: %w", err)
	}
	user, err := svcs.users.CreateAdmin(ctx, adminEmail, adminName, string(hash))
	if err != nil {
		return fmt.Errorf("create dev admin: %w", err)
	}
	logger.InfoContext(ctx, "created dev admin", "email", adminEmail, "user_id", user.ID)
	return nil
}

func seedCategories(
	ctx context.Context,
	svcs Services,
	logger *slog.Logger,
	failures *int,
) map[string]string {
	requests := []model.CreateCategoryRequest{
		{Name: "Mugs", Slug: "mugs"},
		{Name: "Posters", Slug: "posters"},
		{Name: "Stickers", Slug: "stickers"},
	}

	ids := make(map[string]string, len(requests))
	for _, req := range requests {
		created, err := svcs.categories.Create(ctx, &req)
		if err != nil {
			if errors.Is(err, data.ErrCategorySlugExists) {
				logger.InfoContext(ctx, "category already exists", "slug", req.Slug)
				if id, lookupErr := categoryIDBySlug(ctx, svcs.DB, req.Slug); lookupErr == nil {
					ids[req.Slug] = id
				}
				continue
			}
			logger.ErrorContext(ctx, "failed to create category", "slug", req.Slug, "error", err)
			*failures++
			continue
		}
		ids[req.Slug] = created.ID
		logger.InfoContext(ctx, "created category", "slug", req.Slug)
	}
	return ids
}

func seedProducts(
	ctx context.Context,
	svcs Services,
	logger *slog.Logger,
	categoryIDs map[string]string,
	failures *int,
) {
	type sample struct {
		req      model.CreateProductRequest
		category string
	}
	samples := []sample{
		{
			req: model.CreateProductRequest{
				Name: "Enamel Mug", Slug: "enamel-mug",
				Description: "12oz enamel camping mug.",
				PriceCents:  1800, Stock: 40, Published: true,
			},
			category: "mugs",
		},
		{
			req: model.CreateProductRequest{
				Name: "City Skyline Poster", Slug: "city-skyline-poster",
				Description: "A2 matte print.",
				PriceCents:  2500, Stock: 15, Published: true,
			},
			category: "posters",
		},
		{
			req: model.CreateProductRequest{
				Name: "Holographic Sticker Pack", Slug: "holo-sticker-pack",
				Description: "Pack of 10 die-cut stickers.",
				PriceCents:  900, Stock: 200, Published: false,
			},
			category: "stickers",
		},
	}

	for _, s := range samples {
		if id, ok := categoryIDs[s.category]; ok {
			s.req.CategoryID = &id
		}
		if _, err := svcs.products.Create(ctx, &s.req); err != nil {
			if errors.Is(err, data.ErrProductSlugExists) {
				logger.InfoContext(ctx, "product already exists", "slug", s.req.Slug)
				continue
			}
			logger.ErrorContext(ctx, "failed to create product", "slug", s.req.Slug, "error", err)
			*failures++
			continue
		}
		logger.InfoContext(ctx, "created product", "slug", s.req.Slug)
	}
}

// seedOrders inserts sample orders directly. Orders originate from the
// storefront in production, so the data layer deliberately exposes no
// create operation for them.
func seedOrders(ctx context.Context, db *sql.DB, logger *slog.Logger, failures *int) {
	type sample struct {
		email  string
		total  int64
		status model.OrderStatus
	}
	samples := []sample{
		{email: "casey@example.com", total: 4300, status: model.OrderStatusPending},
		{email: "jordan@example.com", total: 1800, status: model.OrderStatusPaid},
		{email: "riley@example.com", total: 900, status: model.OrderStatusShipped},
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		logger.ErrorContext(ctx, "failed to count orders", "error", err)
		*failures++
		return
	}
	if count > 0 {
		logger.InfoContext(ctx, "orders already seeded", "count", count)
		return
	}

	const insert = `
		INSERT INTO orders (id, customer_email, total_cents, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())`
	for _, s := range samples {
		if _, err := db.ExecContext(ctx, insert, uuid.New().String(), s.email, s.total, s.status); err != nil {
			logger.ErrorContext(ctx, "failed to create order", "email", s.email, "error", err)
			*failures++
			continue
		}
		logger.InfoContext(ctx, "created order", "email", s.email, "status", s.status)
	}
}

func categoryIDBySlug(ctx context.Context, db *sql.DB, slug string) (string, error) {
	var id string
	err := db.QueryRowContext(ctx, `SELECT id FROM categories WHERE slug = $1`, slug).Scan(&id)
	return id, err
}
