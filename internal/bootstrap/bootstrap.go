// Package bootstrap assembles the application: configuration, logging,
// database, dependency wiring, and the HTTP router.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/convenia/convenia-backend/internal/app/controllers"
	"github.com/convenia/convenia-backend/internal/app/migrations"
	"github.com/convenia/convenia-backend/internal/app/repositories"
	"github.com/convenia/convenia-backend/internal/app/routes"
	"github.com/convenia/convenia-backend/internal/app/services"
	"github.com/convenia/convenia-backend/internal/config"
	"github.com/convenia/convenia-backend/internal/db"
	"github.com/convenia/convenia-backend/internal/middleware"
	"github.com/convenia/convenia-backend/internal/pkg/auth"
	"github.com/convenia/convenia-backend/internal/pkg/filestorage"
	"github.com/convenia/convenia-backend/internal/pkg/logger"
	"github.com/convenia/convenia-backend/internal/seed"
)

// Dependencies holds everything the server needs at runtime
type Dependencies struct {
	Config     *config.Config
	Pool       *pgxpool.Pool
	JWTService *auth.JWTService
	Storage    *filestorage.LocalStorage
	Services   *services.Services
}

// LoadConfigAndSetupLogger loads configuration and configures logging
func LoadConfigAndSetupLogger(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "console",
	})

	return cfg, nil
}

// SetupDatabase connects to PostgreSQL and applies pending migrations
func SetupDatabase(ctx context.Context, cfg *config.Config, migrationsDir string) (*pgxpool.Pool, error) {
	pool, err := db.NewPgxPool(cfg)
	if err != nil {
		return nil, err
	}

	if err := migrations.Migrate(ctx, pool, migrationsDir); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}

	return pool, nil
}

// BuildDependencies wires repositories, services, and supporting components
func BuildDependencies(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (*Dependencies, error) {
	accessExp, err := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	refreshExp, err := time.ParseDuration(cfg.JWT.RefreshTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token expiration: %w", err)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  accessExp,
		RefreshTokenExp: refreshExp,
		TokenIssuer:     cfg.JWT.Issuer,
	})

	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, "/uploads")
	if err != nil {
		return nil, err
	}

	repos := repositories.NewRepositories(pool)

	if err := seed.EnsureAdmin(ctx, repos.Users, cfg); err != nil {
		return nil, fmt.Errorf("admin seed failed: %w", err)
	}

	return &Dependencies{
		Config:     cfg,
		Pool:       pool,
		JWTService: jwtService,
		Storage:    storage,
		Services:   services.NewServices(repos, jwtService, storage),
	}, nil
}

// SetupRouter builds the gin engine with middleware and routes
func SetupRouter(deps *Dependencies) *gin.Engine {
	if deps.Config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Static("/uploads", deps.Storage.BasePath())

	ctrl := &routes.Controllers{
		Auth:    controllers.NewAuthController(deps.Services.Auth),
		Users:   controllers.NewUserController(deps.Services.Users),
		Request: controllers.NewRequestController(deps.Services.Request),
	}
	routes.SetupRoutes(router, ctrl, deps.JWTService)

	return router
}
