package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vendorpay/vendorpay_backend/internal/apperrors"
	portssvc "github.com/vendorpay/vendorpay_backend/internal/core/ports/services"
	"github.com/vendorpay/vendorpay_backend/internal/dto"
	"github.com/vendorpay/vendorpay_backend/internal/middleware"
)

// cashflowHandler handles HTTP requests for period reports.
type cashflowHandler struct {
	cashflowService portssvc.CashflowSvcFacade
}

// newCashflowHandler creates a new cashflowHandler.
func newCashflowHandler(cs portssvc.CashflowSvcFacade) *cashflowHandler {
	return &cashflowHandler{cashflowService: cs}
}

// registerCashflowRoutes registers routes related to cash flow reporting.
func registerCashflowRoutes(rg *gin.RouterGroup, cashflowService portssvc.CashflowSvcFacade) {
	h := newCashflowHandler(cashflowService)

	reports := rg.Group("/reports")
	{
		reports.GET("/cashflow", h.getCashFlowReport)
	}
}

// getCashFlowReport builds a cash flow report for the query's
// startDate/endDate range (both YYYY-MM-DD, inclusive).
func (h *cashflowHandler) getCashFlowReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	start, err := time.Parse("2006-01-02", c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing startDate (expected YYYY-MM-DD)"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing endDate (expected YYYY-MM-DD)"})
		return
	}

	report, err := h.cashflowService.Report(c.Request.Context(), start, end)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to build cash flow report", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build cash flow report"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCashFlowReportResponse(report))
}
