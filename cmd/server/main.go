// Package main is the entry point for the Petrolog API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petrolog/internal/domain"
	"petrolog/internal/domain/acquisition"
	"petrolog/internal/domain/auth"
	"petrolog/internal/domain/catalogs/depot"
	"petrolog/internal/domain/catalogs/product"
	"petrolog/internal/domain/catalogs/treasury"
	"petrolog/internal/domain/movement"
	"petrolog/internal/domain/stock"
	"petrolog/internal/domain/valuation"
	infraAlerting "petrolog/internal/infrastructure/alerting"
	v1 "petrolog/internal/infrastructure/http/v1"
	"petrolog/internal/infrastructure/numerator"
	"petrolog/internal/infrastructure/storage/postgres"
	"petrolog/internal/infrastructure/storage/postgres/auth_repo"
	"petrolog/internal/infrastructure/storage/postgres/catalog_repo"
	"petrolog/internal/infrastructure/storage/postgres/stock_repo"
	"petrolog/internal/infrastructure/storage/postgres/valuation_repo"
	"petrolog/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting petrolog server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Numerator ---
	numeratorService := numerator.New(pool)

	// --- Audit trail ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	depotRepo := catalog_repo.NewDepotRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	bankRepo := catalog_repo.NewBankAccountRepo(txManager)
	cashRepo := catalog_repo.NewCashRegisterRepo(txManager)
	stockRepo := stock_repo.NewStockRepo(txManager)
	movementRepo := stock_repo.NewMovementRepo(txManager)
	acquisitionRepo := stock_repo.NewAcquisitionRepo(txManager)

	// --- Domain services ---
	movementService := movement.NewService(movementRepo)
	acquisitionService := acquisition.NewService(acquisitionRepo, numeratorService)

	stockLedger := stock.NewService(
		stockRepo,
		depotRepo,
		productRepo,
		movementService,
		acquisitionService,
		infraAlerting.NewLogSink(),
		txManager,
	)
	stockLedger.SetAuditRecorder(postgres.NewStockAuditRecorder(auditService))

	depotService := depot.NewService(depotRepo, stockRepo, numeratorService, txManager)
	productService := product.NewService(productRepo, stockLedger, numeratorService, txManager)

	bankAccounts := domain.NewCatalogService(domain.CatalogServiceConfig[*treasury.BankAccount]{
		Repo:       bankRepo,
		TxManager:  txManager,
		EntityName: "bank account",
	})
	cashRegisters := domain.NewCatalogService(domain.CatalogServiceConfig[*treasury.CashRegister]{
		Repo:       cashRepo,
		TxManager:  txManager,
		EntityName: "cash register",
	})

	// --- Valuation ---
	var estimator acquisition.CostEstimator
	if getEnv("COST_ESTIMATOR", "unweighted") == "weighted" {
		estimator = acquisition.NewQuantityWeighted(acquisitionRepo)
	} else {
		estimator = acquisition.NewUnweightedAverage(acquisitionRepo)
	}

	valuationService := valuation.NewService(
		stockLedger,
		valuation_repo.NewFundsSource(bankRepo, cashRepo),
		valuation_repo.NewTripSource(txManager),
		valuation_repo.NewExpenseSource(txManager),
		estimator,
	)

	// --- Auth ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	authService := auth.NewService(
		auth_repo.NewUserRepo(txManager),
		auth_repo.NewTokenRepo(txManager),
		txManager,
		jwtService,
		auth.DefaultServiceConfig(),
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		JWTValidator:   jwtService,
		AuthService:    authService,
		DepotService:   depotService,
		ProductService: productService,
		BankAccounts:   bankAccounts,
		CashRegisters:  cashRegisters,
		StockLedger:    stockLedger,
		Movements:      movementService,
		Acquisitions:   acquisitionService,
		CostEstimator:  estimator,
		Valuation:      valuationService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
