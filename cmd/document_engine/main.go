package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	_ "github.com/SscSPs/gym_document_engine/cmd/docs"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/core/services"
	"github.com/SscSPs/gym_document_engine/internal/handlers"
	"github.com/SscSPs/gym_document_engine/internal/middleware"
	"github.com/SscSPs/gym_document_engine/internal/platform/config"
	"github.com/SscSPs/gym_document_engine/internal/repositories/database/gormstore"
	"github.com/SscSPs/gym_document_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/gym_document_engine/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Gym Document Engine API
// @version 1.0
// @description Multi-tenant document lifecycle, approval and ledger posting engine.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, ping, closeStore, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize store", slog.String("driver", cfg.DBDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	serviceContainer := services.NewServiceContainer(cfg, repos)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", middleware.APIKeyHeader},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, ping)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("driver", cfg.DBDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openStore connects the configured storage backend and returns its repositories,
// a health probe and a close function.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, handlers.Pinger, func(), error) {
	switch cfg.DBDriver {
	case config.DriverGormPostgres:
		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return portsrepo.RepositoryProvider{}, nil, nil, err
		}
		db, err := database.NewGormDB(database.GormOptions{Dialect: "postgres", DSN: cfg.DatabaseURL})
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, nil, err
		}
		ping := func(ctx context.Context) error { return db.WithContext(ctx).Exec("SELECT 1").Error }
		return gormstore.NewRepositoryProvider(db), ping, func() { database.CloseGormDB(db) }, nil

	case config.DriverSQLite:
		db, err := database.NewGormDB(database.GormOptions{Dialect: "sqlite", DSN: cfg.SQLitePath})
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, nil, err
		}
		// SQLite is a development backend; its schema comes from the gorm models.
		if err := gormstore.AutoMigrate(db); err != nil {
			database.CloseGormDB(db)
			return portsrepo.RepositoryProvider{}, nil, nil, err
		}
		ping := func(ctx context.Context) error { return db.WithContext(ctx).Exec("SELECT 1").Error }
		return gormstore.NewRepositoryProvider(db), ping, func() { database.CloseGormDB(db) }, nil

	default:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, nil, err
		}
		logger.Info("Database connection pool established.")

		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			dbPool.Close()
			return portsrepo.RepositoryProvider{}, nil, nil, err
		}
		return pgsql.NewRepositoryProvider(dbPool), dbPool.Ping, func() { database.ClosePgxPool(dbPool) }, nil
	}
}
