package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/telvista/crm-backoffice/internal/api"
	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
	"github.com/telvista/crm-backoffice/internal/core/service"
	"github.com/telvista/crm-backoffice/internal/infrastructure/config"
	mongodb "github.com/telvista/crm-backoffice/internal/infrastructure/db/mongo"
	redisdb "github.com/telvista/crm-backoffice/internal/infrastructure/db/redis"
	"github.com/telvista/crm-backoffice/pkg/logger"
)

// defaultPackages is the service-plan catalog seeded on first start.
var defaultPackages = []domain.Package{
	{Name: "Basic", Description: "Entry plan: 5 GB data, 300 minutes", Price: 500},
	{Name: "Standard", Description: "15 GB data, unlimited calls", Price: 900},
	{Name: "Premium", Description: "Unlimited data and calls, roaming included", Price: 1500},
}

// @title        CRM Back-Office API
// @version      1.0
// @description  Identity, provisioning, sales, and analytics service for the telecom sales CRM.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	credRepo := mongodb.NewCredentialRepository(db)
	saleRepo := mongodb.NewSaleRepository(db)
	packageRepo := mongodb.NewPackageRepository(db)

	if err := credRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create credential indexes")
	}
	if err := saleRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create sale indexes")
	}
	if err := packageRepo.Seed(ctx, defaultPackages); err != nil {
		log.Fatal().Err(err).Msg("failed to seed package catalog")
	}
	log.Info().Msg("indexes ensured, package catalog seeded")

	bootstrapAdmin(ctx, cfg, credRepo, log)

	// Redis is optional: without it the stats dashboard loses its
	// degraded-mode snapshot, nothing else.
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, stats snapshot cache disabled")
		rdb = nil
	} else {
		defer func() { _ = rdb.Close() }()
	}

	e := api.NewRouter(db, rdb, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// bootstrapAdmin creates the first administrator credential when one is
// configured and its email is not taken yet. Idempotent across restarts.
func bootstrapAdmin(ctx context.Context, cfg *config.Config, creds ports.CredentialRepository, log zerolog.Logger) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	auth := service.NewAuthService(creds, cfg.JWTSecret, cfg.TokenTTL, log)
	_, _, err := auth.Register(ctx, ports.RegisterInput{
		FirstName: "System",
		LastName:  "Administrator",
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
		Role:      domain.RoleAdmin,
	})
	switch {
	case err == nil:
		log.Info().Str("email", domain.NormalizeEmail(cfg.AdminEmail)).Msg("bootstrap admin created")
	case errors.Is(err, domain.ErrCredentialExists):
		// Already bootstrapped.
	default:
		log.Fatal().Err(err).Msg("failed to bootstrap admin")
	}
}
