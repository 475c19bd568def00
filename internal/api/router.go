package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/telvista/crm-backoffice/docs"
	"github.com/telvista/crm-backoffice/internal/api/handler"
	"github.com/telvista/crm-backoffice/internal/api/middleware"
	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
	"github.com/telvista/crm-backoffice/internal/core/service"
	"github.com/telvista/crm-backoffice/internal/infrastructure/config"
	mongodb "github.com/telvista/crm-backoffice/internal/infrastructure/db/mongo"
	redisdb "github.com/telvista/crm-backoffice/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil; the stats service then runs without a snapshot cache.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("crm"))

	// --- Repositories ---
	credRepo := mongodb.NewCredentialRepository(db)
	customerRepo := mongodb.NewCustomerRepository(db)
	packageRepo := mongodb.NewPackageRepository(db)
	saleRepo := mongodb.NewSaleRepository(db)

	var statsCache ports.StatsCache
	if rdb != nil {
		statsCache = redisdb.NewStatsCache(rdb, cfg.StatsCacheTTL)
	}

	// --- Services ---
	authService := service.NewAuthService(credRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	provisioningService := service.NewProvisioningService(credRepo, log)
	customerService := service.NewCustomerService(customerRepo, provisioningService, log)
	salesService := service.NewSalesService(saleRepo, customerRepo, packageRepo, log)
	statsService := service.NewStatsService(saleRepo, packageRepo, statsCache, log)
	accountService := service.NewAccountService(credRepo, customerRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	customerHandler := handler.NewCustomerHandler(customerService)
	userHandler := handler.NewUserHandler(provisioningService, accountService)
	salesHandler := handler.NewSalesHandler(salesService, customerService, statsService)

	authMW := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleClient)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/change-password", authHandler.ChangePassword, authMW, anyRole)

	// --- Customer routes (back-office only) ---
	customers := e.Group("/customers", authMW, adminOnly)
	customers.POST("", customerHandler.Create)
	customers.GET("", customerHandler.List)
	customers.GET("/:id", customerHandler.Get)
	customers.PUT("/:id", customerHandler.Update)
	customers.DELETE("/:id", customerHandler.Delete)

	// --- User account routes ---
	e.POST("/users/:id/reset-password", userHandler.ResetPassword, authMW, adminOnly)
	e.DELETE("/users/:id", userHandler.Delete, authMW, anyRole)

	// --- Sales routes ---
	e.POST("/sales", salesHandler.Create, authMW, adminOnly)
	e.GET("/sales", salesHandler.List, authMW, adminOnly)
	e.GET("/sales/stats", salesHandler.Stats, authMW, adminOnly)
	e.GET("/sales/customer/:id", salesHandler.ListForCustomer, authMW, anyRole)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
