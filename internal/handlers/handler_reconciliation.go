package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vendorpay/vendorpay_backend/internal/apperrors"
	portssvc "github.com/vendorpay/vendorpay_backend/internal/core/ports/services"
	"github.com/vendorpay/vendorpay_backend/internal/dto"
	"github.com/vendorpay/vendorpay_backend/internal/middleware"
)

// reconciliationHandler handles HTTP requests that trigger reconciliation runs.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: rs}
}

// registerReconciliationRoutes registers routes related to reconciliation.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade, rateLimit gin.HandlerFunc) {
	h := newReconciliationHandler(reconciliationService)

	reconciliation := rg.Group("/reconciliation")
	{
		reconciliation.POST("/run", rateLimit, h.runReconciliation)
		reconciliation.GET("/statements/:transactionID", h.getMatchForStatement)
	}
}

// runReconciliation triggers one matching run, optionally scoped to an
// account and/or date range.
func (h *reconciliationHandler) runReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// Every field of the run request is optional, so a missing body just
	// means an unscoped run over all accounts.
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	var from, to *time.Time
	if req.StartDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate"})
			return
		}
		from = &parsed
	}
	if req.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate"})
			return
		}
		to = &parsed
	}

	result, err := h.reconciliationService.Reconcile(c.Request.Context(), req.AccountID, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Reconciliation run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation run failed"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(result))
}

// getMatchForStatement looks up the persisted match for one statement
// transaction, with both linked transactions.
func (h *reconciliationHandler) getMatchForStatement(c *gin.Context) {
	transactionID := c.Param("transactionID")

	detail, err := h.reconciliationService.GetMatchForStatement(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No match found for statement transaction"})
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to look up match",
			slog.String("statement_transaction_id", transactionID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up match"})
		return
	}

	c.JSON(http.StatusOK, dto.ToMatchDetailResponse(detail))
}
