package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vendorpay/vendorpay_backend/internal/apperrors"
	portssvc "github.com/vendorpay/vendorpay_backend/internal/core/ports/services"
	"github.com/vendorpay/vendorpay_backend/internal/dto"
	"github.com/vendorpay/vendorpay_backend/internal/middleware"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/statements", h.createStatementTransactions)
		transactions.POST("/business", h.createBusinessTransaction)
		transactions.POST("/statements/import", h.importStatementCSV)
		transactions.POST("/sales/import", h.importSalesReport)
	}
}

// createStatementTransactions ingests a batch of statement lines from a feed.
func (h *transactionHandler) createStatementTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateStatementTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txns, err := h.transactionService.CreateStatementTransactions(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create statement transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create statement transactions"})
		return
	}

	responses := make([]dto.StatementTransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = dto.ToStatementTransactionResponse(txn)
	}
	c.JSON(http.StatusCreated, gin.H{"transactions": responses})
}

// createBusinessTransaction records one outgoing or incoming ledger entry.
func (h *transactionHandler) createBusinessTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBusinessTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.transactionService.CreateBusinessTransaction(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create business transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create business transaction"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToBusinessTransactionResponse(txn))
}

// importStatementCSV parses a multipart CSV statement export into
// statement transactions for the given account.
func (h *transactionHandler) importStatementCSV(c *gin.Context) {
	h.importTabular(c, h.transactionService.ImportStatementCSV)
}

// importSalesReport parses a multipart XLSX sales workbook into
// incoming business transactions.
func (h *transactionHandler) importSalesReport(c *gin.Context) {
	h.importTabular(c, h.transactionService.ImportSalesReportXLSX)
}

func (h *transactionHandler) importTabular(c *gin.Context, importFn func(ctx context.Context, accountID string, r io.Reader) (*dto.ImportResult, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accountID := c.PostForm("accountID")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accountID form field is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file in request: " + err.Error()})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	result, err := importFn(c.Request.Context(), accountID, src)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to import tabular document", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import document"})
		return
	}

	c.JSON(http.StatusCreated, result)
}
