package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/vendorpay/vendorpay_backend/internal/core/ports/services"
	"github.com/vendorpay/vendorpay_backend/internal/middleware"
	"github.com/vendorpay/vendorpay_backend/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", cors.Default())

	// Uploads and reconciliation runs are expensive, so those groups get
	// an IP rate limit.
	rate := limiter.Rate{Period: cfg.UploadRateLimitPeriod, Limit: cfg.UploadRateLimitCount}
	rateLimit := middleware.RateLimit(limiter.New(memory.NewStore(), rate))

	registerDocumentRoutes(v1, services.Document, cfg, rateLimit)
	registerTransactionRoutes(v1, services.Transaction)
	registerReconciliationRoutes(v1, services.Reconciliation, rateLimit)
	registerCashflowRoutes(v1, services.Cashflow)
}
