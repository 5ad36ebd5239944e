package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/vendorpay/vendorpay_backend/internal/adapters/database/pgsql"
	portssvc "github.com/vendorpay/vendorpay_backend/internal/core/ports/services"
	"github.com/vendorpay/vendorpay_backend/internal/core/services"
	"github.com/vendorpay/vendorpay_backend/internal/extraction"
	"github.com/vendorpay/vendorpay_backend/internal/handlers"
	"github.com/vendorpay/vendorpay_backend/internal/middleware"
	"github.com/vendorpay/vendorpay_backend/pkg/config"
	"github.com/vendorpay/vendorpay_backend/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, "migrations", logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire the repositories, the extraction engine and the services.
	docRepo := pgsql.NewDocumentRepository(dbPool)
	txnRepo := pgsql.NewTransactionRepository(dbPool)
	reconRepo := pgsql.NewReconciliationRepository(dbPool)

	extractor := extraction.NewExtractor()
	extractor.TesseractCmd = cfg.TesseractCmd
	extractor.PdftoppmCmd = cfg.PdftoppmCmd

	serviceContainer := &portssvc.ServiceContainer{
		Document:       services.NewDocumentService(docRepo, extractor, cfg.MaxUploadSizeBytes),
		Transaction:    services.NewTransactionService(txnRepo),
		Reconciliation: services.NewReconciliationService(txnRepo, reconRepo, cfg.FuzzyMatchThreshold),
		Cashflow:       services.NewCashflowService(txnRepo, reconRepo),
	}

	// Optional scheduled reconciliation sweep over all accounts.
	if cfg.ReconcileCronSpec != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.ReconcileCronSpec, func() {
			result, err := serviceContainer.Reconciliation.Reconcile(context.Background(), nil, nil, nil)
			if err != nil {
				logger.Error("Scheduled reconciliation failed", slog.String("error", err.Error()))
				return
			}
			logger.Info("Scheduled reconciliation complete",
				slog.Int("total_matches", result.Summary.TotalMatches),
				slog.Float64("reconciliation_rate", result.Summary.ReconciliationRate),
			)
		})
		if err != nil {
			logger.Error("Invalid reconcile cron spec", slog.String("spec", cfg.ReconcileCronSpec), slog.String("error", err.Error()))
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("Scheduled reconciliation enabled", slog.String("spec", cfg.ReconcileCronSpec))
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
