package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorpay/vendorpay_backend/internal/apperrors"
	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
	portsrepo "github.com/vendorpay/vendorpay_backend/internal/core/ports/repositories"
	portssvc "github.com/vendorpay/vendorpay_backend/internal/core/ports/services"
	"github.com/vendorpay/vendorpay_backend/internal/dto"
	"github.com/vendorpay/vendorpay_backend/internal/extraction"
	"github.com/vendorpay/vendorpay_backend/internal/middleware"
)

const txnDateLayout = "2006-01-02"

type transactionService struct {
	txnRepo portsrepo.TransactionRepositoryFacade
}

// NewTransactionService creates the transaction ingestion service.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade) portssvc.TransactionSvcFacade {
	return &transactionService{txnRepo: txnRepo}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateStatementTransactions(ctx context.Context, req dto.CreateStatementTransactionsRequest) ([]domain.StatementTransaction, error) {
	now := time.Now().UTC()
	txns := make([]domain.StatementTransaction, 0, len(req.Transactions))
	for i, input := range req.Transactions {
		date, err := time.Parse(txnDateLayout, input.TransactionDate)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d has invalid date %q", apperrors.ErrValidation, i, input.TransactionDate)
		}
		txns = append(txns, domain.StatementTransaction{
			TransactionID:   uuid.NewString(),
			AccountID:       req.AccountID,
			DocumentID:      req.DocumentID,
			TransactionDate: date,
			Description:     input.Description,
			Amount:          input.Amount,
			TransactionType: resolveStatementType(input.TransactionType, input.Amount),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     req.AccountID,
				LastUpdatedAt: now,
				LastUpdatedBy: req.AccountID,
			},
		})
	}

	if err := s.txnRepo.SaveStatementTransactions(ctx, txns); err != nil {
		return nil, fmt.Errorf("failed to save statement transactions: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Statement transactions ingested",
		slog.String("account_id", req.AccountID),
		slog.Int("count", len(txns)),
	)
	return txns, nil
}

func (s *transactionService) CreateBusinessTransaction(ctx context.Context, req dto.CreateBusinessTransactionRequest) (*domain.BusinessTransaction, error) {
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: business transaction amounts are unsigned", apperrors.ErrValidation)
	}
	date, err := time.Parse(txnDateLayout, req.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid transaction date %q", apperrors.ErrValidation, req.TransactionDate)
	}

	now := time.Now().UTC()
	txn := domain.BusinessTransaction{
		TransactionID:        uuid.NewString(),
		AccountID:            req.AccountID,
		DocumentID:           req.DocumentID,
		Type:                 domain.BusinessTransactionType(req.Type),
		TransactionDate:      date,
		VendorName:           req.VendorName,
		Description:          req.Description,
		Category:             req.Category,
		Amount:               req.Amount,
		ReconciliationStatus: domain.Unreconciled,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.AccountID,
			LastUpdatedAt: now,
			LastUpdatedBy: req.AccountID,
		},
	}

	if err := s.txnRepo.SaveBusinessTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save business transaction: %w", err)
	}
	return &txn, nil
}

// ImportStatementCSV parses a CSV bank export and persists the rows that
// parse. Skipped rows are reported, never fatal.
func (s *transactionService) ImportStatementCSV(ctx context.Context, accountID string, r io.Reader) (*dto.ImportResult, error) {
	parsed, err := extraction.ParseStatementCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	now := time.Now().UTC()
	for i := range parsed.Transactions {
		parsed.Transactions[i].TransactionID = uuid.NewString()
		parsed.Transactions[i].AccountID = accountID
		parsed.Transactions[i].AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     accountID,
			LastUpdatedAt: now,
			LastUpdatedBy: accountID,
		}
	}

	if len(parsed.Transactions) > 0 {
		if err := s.txnRepo.SaveStatementTransactions(ctx, parsed.Transactions); err != nil {
			return nil, fmt.Errorf("failed to save imported statement transactions: %w", err)
		}
	}

	middleware.GetLoggerFromCtx(ctx).Info("Statement CSV imported",
		slog.String("account_id", accountID),
		slog.Int("created", len(parsed.Transactions)),
		slog.Int("skipped", len(parsed.Skipped)),
	)
	return &dto.ImportResult{
		Created:    len(parsed.Transactions),
		Skipped:    toSkippedRows(parsed.Skipped),
		Confidence: parsed.Confidence,
	}, nil
}

// ImportSalesReportXLSX parses a POS sales workbook into incoming
// business transactions.
func (s *transactionService) ImportSalesReportXLSX(ctx context.Context, accountID string, r io.Reader) (*dto.ImportResult, error) {
	parsed, err := extraction.ParseSalesReportXLSX(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	now := time.Now().UTC()
	for i := range parsed.Transactions {
		parsed.Transactions[i].TransactionID = uuid.NewString()
		parsed.Transactions[i].AccountID = accountID
		parsed.Transactions[i].AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     accountID,
			LastUpdatedAt: now,
			LastUpdatedBy: accountID,
		}
	}

	if len(parsed.Transactions) > 0 {
		if err := s.txnRepo.SaveBusinessTransactions(ctx, parsed.Transactions); err != nil {
			return nil, fmt.Errorf("failed to save imported sales transactions: %w", err)
		}
	}

	middleware.GetLoggerFromCtx(ctx).Info("Sales report imported",
		slog.String("account_id", accountID),
		slog.Int("created", len(parsed.Transactions)),
		slog.Int("skipped", len(parsed.Skipped)),
		slog.String("total_sales", parsed.TotalSales.StringFixed(2)),
	)
	return &dto.ImportResult{
		Created:     len(parsed.Transactions),
		Skipped:     toSkippedRows(parsed.Skipped),
		TotalAmount: parsed.TotalSales.StringFixed(2),
		Confidence:  parsed.Confidence,
	}, nil
}

// resolveStatementType prefers an explicit type and falls back to the
// amount's sign: negative means money left the account.
func resolveStatementType(explicit string, amount decimal.Decimal) domain.TransactionType {
	if explicit != "" {
		return domain.TransactionType(explicit)
	}
	if amount.IsNegative() {
		return domain.Debit
	}
	return domain.Credit
}

func toSkippedRows(rows []extraction.RowError) []dto.SkippedRow {
	if len(rows) == 0 {
		return nil
	}
	out := make([]dto.SkippedRow, len(rows))
	for i, row := range rows {
		out[i] = dto.SkippedRow{Row: row.Row, Reason: row.Reason}
	}
	return out
}
