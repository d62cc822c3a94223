// Command shop-admin runs the e-commerce admin panel API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/shopmill/admin-api/config"
	"github.com/shopmill/admin-api/internal/bootstrap"
	"github.com/shopmill/admin-api/internal/devseed"
	"github.com/shopmill/admin-api/internal/observability/statsd"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger("info")
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	// Rebuild the logger now that the configured level is known.
	logger = bootstrap.InitLogger(cfg.LogLevel)

	logger.InfoContext(ctx, "starting shop-admin",
		"addr", cfg.HTTP.Addr,
		"db_host", cfg.Postgres.Host,
		"db_name", cfg.Postgres.Name,
		"redis_enabled", cfg.Redis.Enabled,
		"dev", cfg.IsDev)

	db, err := bootstrap.ConnectDB(cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close database failed", "error", cerr)
		}
	}()

	redisClient, err := bootstrap.ConnectRedis(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	if cfg.Postgres.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	if err = maybeSeed(ctx, &cfg, db, logger); err != nil {
		return err
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Statsd.Enabled,
		Address: cfg.Statsd.Addr,
		Prefix:  cfg.Statsd.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("connect statsd: %w", err)
	}
	defer func() {
		if cerr := metrics.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close statsd failed", "error", cerr)
		}
	}()

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cfg,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	server := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Metrics:  metrics,
		Logger:   logger,
	})

	// Block until asked to stop.
	stopCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-stopCtx.Done()

	if err := bootstrap.ShutdownHTTPServer(ctx, server, logger); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.WarnContext(ctx, "shutdown deadline exceeded; connections dropped")
			return nil
		}
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// maybeSeed populates development data. Seeding outside dev mode is refused
// outright rather than warned about.
func maybeSeed(ctx context.Context, cfg *config.AppConfig, db *sql.DB, logger *slog.Logger) error {
	if os.Getenv("DEV_SEED") != "true" {
		return nil
	}
	if !cfg.IsDev {
		return errors.New("DEV_SEED requires dev mode")
	}
	return devseed.Run(ctx, devseed.NewServices(db, cfg.Login), logger)
}
