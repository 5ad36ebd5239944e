package services

import (
	"context"
	"io"
	"time"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
	"github.com/vendorpay/vendorpay_backend/internal/dto"
)

// DocumentSvcFacade covers the document pipeline: upload registration,
// processing, retrieval.
type DocumentSvcFacade interface {
	// RegisterUpload persists an uploaded file's metadata record in the
	// pending state. Returns apperrors.ErrDuplicate when a document with
	// the same content hash already exists.
	RegisterUpload(ctx context.Context, req dto.RegisterUploadRequest) (*domain.Document, error)

	// Process runs the extraction pipeline over a pending document:
	// extract text, classify, extract fields and financial summary, then
	// store the result. Per-document failures end in StatusFailed, not an
	// error return; only store failures return an error.
	Process(ctx context.Context, documentID string) (*domain.Document, error)

	// GetDocumentByID retrieves a document record.
	GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// ListPendingDocuments retrieves documents awaiting processing,
	// oldest first, up to limit (<=0 selects the default).
	ListPendingDocuments(ctx context.Context, limit int) ([]domain.Document, error)
}

// TransactionSvcFacade covers transaction ingestion from feeds and
// structured documents.
type TransactionSvcFacade interface {
	// CreateStatementTransactions ingests statement lines from a bank/card feed.
	CreateStatementTransactions(ctx context.Context, req dto.CreateStatementTransactionsRequest) ([]domain.StatementTransaction, error)

	// CreateBusinessTransaction records one outgoing or incoming ledger entry.
	CreateBusinessTransaction(ctx context.Context, req dto.CreateBusinessTransactionRequest) (*domain.BusinessTransaction, error)

	// ImportStatementCSV parses a CSV statement export and persists the
	// rows that parse; skipped rows come back with reasons.
	ImportStatementCSV(ctx context.Context, accountID string, r io.Reader) (*dto.ImportResult, error)

	// ImportSalesReportXLSX parses a POS sales workbook into incoming
	// transactions.
	ImportSalesReportXLSX(ctx context.Context, accountID string, r io.Reader) (*dto.ImportResult, error)
}

// ReconciliationSvcFacade runs the matching cascade.
type ReconciliationSvcFacade interface {
	// Reconcile matches unreconciled statement transactions against
	// business transactions, optionally scoped to one account and/or a
	// date range, persisting each confirmed match.
	Reconcile(ctx context.Context, accountID *string, from, to *time.Time) (*domain.ReconciliationResult, error)

	// GetMatchForStatement looks up the persisted match for a statement
	// transaction together with both linked transactions. Returns
	// apperrors.ErrNotFound when the statement has no match.
	GetMatchForStatement(ctx context.Context, statementTransactionID string) (*domain.MatchDetail, error)
}

// CashflowSvcFacade generates period reports over reconciled data.
type CashflowSvcFacade interface {
	// Report aggregates reconciled transactions within [start, end].
	Report(ctx context.Context, start, end time.Time) (*domain.CashFlowReport, error)
}

// ServiceContainer bundles all service facades for route registration.
type ServiceContainer struct {
	Document       DocumentSvcFacade
	Transaction    TransactionSvcFacade
	Reconciliation ReconciliationSvcFacade
	Cashflow       CashflowSvcFacade
}
