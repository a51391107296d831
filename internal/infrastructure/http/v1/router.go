// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"petrolog/internal/domain"
	"petrolog/internal/domain/acquisition"
	"petrolog/internal/domain/auth"
	"petrolog/internal/domain/catalogs/depot"
	"petrolog/internal/domain/catalogs/product"
	"petrolog/internal/domain/catalogs/treasury"
	"petrolog/internal/domain/movement"
	"petrolog/internal/domain/stock"
	"petrolog/internal/domain/valuation"
	"petrolog/internal/infrastructure/http/v1/handlers"
	"petrolog/internal/infrastructure/http/v1/middleware"
	"petrolog/internal/infrastructure/storage/postgres"
	"petrolog/pkg/logger"
)

// RouterConfig holds the router's collaborators. Services are constructed
// once at startup and shared across requests.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Catalog services
	DepotService   *depot.Service
	ProductService *product.Service
	BankAccounts   *domain.CatalogService[*treasury.BankAccount]
	CashRegisters  *domain.CatalogService[*treasury.CashRegister]

	// StockLedger is the stock mutation and query surface
	StockLedger *stock.Service

	// Movements serves the movement history endpoint
	Movements *movement.Service

	// Acquisitions serves the purchase history endpoints
	Acquisitions *acquisition.Service

	// CostEstimator serves the average-cost query
	CostEstimator acquisition.CostEstimator

	// Valuation serves the capital report
	Valuation *valuation.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		// Protected endpoints
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, cfg)
		registerStockRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- DEPOTS ---
	{
		handler := handlers.NewDepotHandler(baseHandler, cfg.DepotService)
		group := catalogs.Group("/depots")
		RegisterCatalogRoutes(group, handler)
		group.POST("/:id/maintenance", middleware.RequireAdmin(), handler.SetMaintenance)
	}

	// --- PRODUCTS ---
	{
		handler := handlers.NewProductHandler(baseHandler, cfg.ProductService)
		RegisterCatalogRoutes(catalogs.Group("/products"), handler)
	}

	// --- BANK ACCOUNTS ---
	{
		handler := handlers.NewBankAccountHandler(baseHandler, cfg.BankAccounts)
		RegisterCatalogRoutes(catalogs.Group("/bank-accounts"), handler)
	}

	// --- CASH REGISTERS ---
	{
		handler := handlers.NewCashRegisterHandler(baseHandler, cfg.CashRegisters)
		RegisterCatalogRoutes(catalogs.Group("/cash-registers"), handler)
	}
}

// registerStockRoutes registers stock ledger and purchase history
// endpoints.
func registerStockRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	stockHandler := handlers.NewStockHandler(baseHandler, cfg.StockLedger, cfg.Movements)
	stockHandler.RegisterRoutes(rg.Group("/stock"))

	acquisitionHandler := handlers.NewAcquisitionHandler(baseHandler, cfg.Acquisitions, cfg.CostEstimator)
	acquisitionHandler.RegisterRoutes(rg.Group("/acquisitions"))
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	valuationHandler := handlers.NewValuationHandler(baseHandler, cfg.Valuation)
	valuationHandler.RegisterRoutes(rg.Group("/reports"))
}
