package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	redislib "github.com/redis/go-redis/v9"

	"github.com/shopmill/admin-api/config"
	redisadapter "github.com/shopmill/admin-api/internal/adapters/redis"
	"github.com/shopmill/admin-api/internal/adapters/revalidate"
	"github.com/shopmill/admin-api/internal/data"
	"github.com/shopmill/admin-api/internal/service"
	"github.com/shopmill/admin-api/internal/session"
)

// ServiceDeps holds the external dependencies needed to build services.
type ServiceDeps struct {
	Config *config.AppConfig
	DB     *sql.DB
	// RedisClient is optional; nil disables session revocation.
	RedisClient *redislib.Client
	Logger      *slog.Logger
}

// ServiceContainer holds all initialized services.
type ServiceContainer struct {
	Sessions   *session.Manager
	Auth       *service.AuthService
	Products   *service.ProductService
	Categories *service.CategoryService
	Orders     *service.OrderService
}

// NewServices constructs the session manager and every service behind the
// HTTP layer.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	codec, err := session.NewCodec(cfg.Session.SigningKey)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build session codec: %w", err)
	}

	var denylist session.Denylist
	if deps.RedisClient != nil {
		denylist = redisadapter.NewDenylist(deps.RedisClient)
	}

	sessions, err := session.NewManager(session.ManagerOptions{
		Codec:        codec,
		Config:       cfg.Session,
		CookieDomain: cfg.HTTP.CookieDomain,
		// Dev runs on plain-HTTP localhost; everywhere else cookies are Secure.
		SecureCookies: !cfg.IsDev,
		Denylist:      denylist,
		Logger:        logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build session manager: %w", err)
	}

	revalidator, err := revalidate.NewClient(revalidate.ClientOptions{
		Config: cfg.Revalidate,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build revalidate client: %w", err)
	}

	auth, err := service.NewAuthService(service.AuthServiceOptions{
		Users:    data.NewUserRepo(deps.DB),
		Sessions: sessions,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	products, err := service.NewProductService(service.ProductServiceOptions{
		Repo:        data.NewProductRepo(deps.DB),
		Revalidator: revalidator,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build product service: %w", err)
	}

	categories, err := service.NewCategoryService(service.CategoryServiceOptions{
		Repo:        data.NewCategoryRepo(deps.DB),
		Revalidator: revalidator,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build category service: %w", err)
	}

	orders, err := service.NewOrderService(service.OrderServiceOptions{
		Repo:   data.NewOrderRepo(deps.DB),
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build order service: %w", err)
	}

	return ServiceContainer{
		Sessions:   sessions,
		Auth:       auth,
		Products:   products,
		Categories: categories,
		Orders:     orders,
	}, nil
}
