package repositories

import (
	"context"
	"time"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// UnreconciledSet is everything the reconciliation engine needs for one
// run: the open statement lines and both business ledgers.
type UnreconciledSet struct {
	Statements []domain.StatementTransaction
	Outgoing   []domain.BusinessTransaction
	Incoming   []domain.BusinessTransaction
}

// TransactionReader defines read operations for statement and business
// transactions.
type TransactionReader interface {
	// FindUnreconciled retrieves all unmatched statement transactions and
	// all unreconciled business transactions, optionally filtered by account.
	FindUnreconciled(ctx context.Context, accountID *string) (*UnreconciledSet, error)

	// FindStatementTransactionByID retrieves a single statement transaction.
	FindStatementTransactionByID(ctx context.Context, transactionID string) (*domain.StatementTransaction, error)

	// FindBusinessTransactionByID retrieves a single business transaction.
	FindBusinessTransactionByID(ctx context.Context, transactionID string) (*domain.BusinessTransaction, error)

	// ListBusinessTransactionsInRange retrieves business transactions dated
	// within [start, end], both ledgers.
	ListBusinessTransactionsInRange(ctx context.Context, start, end time.Time) ([]domain.BusinessTransaction, error)
}

// TransactionWriter defines write operations for statement and business
// transactions.
type TransactionWriter interface {
	// SaveStatementTransactions persists a batch of statement lines.
	SaveStatementTransactions(ctx context.Context, txns []domain.StatementTransaction) error

	// SaveBusinessTransaction persists one business transaction.
	SaveBusinessTransaction(ctx context.Context, txn domain.BusinessTransaction) error

	// SaveBusinessTransactions persists a batch of business transactions.
	SaveBusinessTransactions(ctx context.Context, txns []domain.BusinessTransaction) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
