// Convenia backend API server.
package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

	_ "github.com/convenia/convenia-backend/docs"
	"github.com/convenia/convenia-backend/internal/bootstrap"
	"github.com/convenia/convenia-backend/internal/pkg/logger"
	"github.com/convenia/convenia-backend/internal/server"
)

// @title Convenia API
// @version 1.0
// @description Backend for submitting and reviewing inter-institution partnership requests.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	migrationsDir := flag.String("migrations", "migrations", "path to the migrations directory")
	flag.Parse()

	// A local .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	pool, err := bootstrap.SetupDatabase(ctx, cfg, *migrationsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up database")
	}
	defer pool.Close()

	deps, err := bootstrap.BuildDependencies(ctx, cfg, pool)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build dependencies")
	}

	router := bootstrap.SetupRouter(deps)

	if err := server.New(router, cfg.Server.Port).Run(); err != nil {
		logger.Fatal().Err(err).Msg("Server error")
	}
}
