package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendorpay/vendorpay_backend/internal/apperrors"
	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
	portsrepo "github.com/vendorpay/vendorpay_backend/internal/core/ports/repositories"
)

type transactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new repository for statement and
// business transactions.
func NewTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &transactionRepository{pool: pool}
}

var _ portsrepo.TransactionRepositoryFacade = (*transactionRepository)(nil)

const statementColumns = `transaction_id, account_id, document_id, transaction_date, description, amount,
		transaction_type, is_matched, created_at, created_by, last_updated_at, last_updated_by`

const businessColumns = `transaction_id, account_id, document_id, type, transaction_date, vendor_name,
		description, category, amount, reconciliation_status, created_at, created_by, last_updated_at, last_updated_by`

func (r *transactionRepository) SaveStatementTransactions(ctx context.Context, txns []domain.StatementTransaction) error {
	if len(txns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO statement_transactions (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, txn := range txns {
		batch.Queue(query,
			txn.TransactionID,
			txn.AccountID,
			nullableString(txn.DocumentID),
			txn.TransactionDate,
			txn.Description,
			txn.Amount,
			txn.TransactionType,
			txn.IsMatched,
			txn.CreatedAt,
			txn.CreatedBy,
			txn.LastUpdatedAt,
			txn.LastUpdatedBy,
		)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert %d statement transactions: %w", len(txns), err)
	}
	return nil
}

func (r *transactionRepository) SaveBusinessTransaction(ctx context.Context, txn domain.BusinessTransaction) error {
	return r.SaveBusinessTransactions(ctx, []domain.BusinessTransaction{txn})
}

func (r *transactionRepository) SaveBusinessTransactions(ctx context.Context, txns []domain.BusinessTransaction) error {
	if len(txns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO business_transactions (` + businessColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	for _, txn := range txns {
		batch.Queue(query,
			txn.TransactionID,
			txn.AccountID,
			nullableString(txn.DocumentID),
			txn.Type,
			txn.TransactionDate,
			nullableString(txn.VendorName),
			txn.Description,
			nullableString(txn.Category),
			txn.Amount,
			txn.ReconciliationStatus,
			txn.CreatedAt,
			txn.CreatedBy,
			txn.LastUpdatedAt,
			txn.LastUpdatedBy,
		)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert %d business transactions: %w", len(txns), err)
	}
	return nil
}

// FindUnreconciled loads everything one reconciliation run consumes:
// unmatched statement lines and unreconciled business transactions of
// both variants, oldest first for deterministic pass order.
func (r *transactionRepository) FindUnreconciled(ctx context.Context, accountID *string) (*portsrepo.UnreconciledSet, error) {
	stmtQuery := `
		SELECT ` + statementColumns + `
		FROM statement_transactions
		WHERE is_matched = FALSE AND ($1::text IS NULL OR account_id = $1)
		ORDER BY transaction_date ASC, created_at ASC;
	`
	rows, err := r.pool.Query(ctx, stmtQuery, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unmatched statement transactions: %w", err)
	}
	statements, err := collectStatements(rows)
	if err != nil {
		return nil, err
	}

	bizQuery := `
		SELECT ` + businessColumns + `
		FROM business_transactions
		WHERE reconciliation_status = $1 AND ($2::text IS NULL OR account_id = $2)
		ORDER BY transaction_date ASC, created_at ASC;
	`
	rows, err = r.pool.Query(ctx, bizQuery, domain.Unreconciled, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unreconciled business transactions: %w", err)
	}
	business, err := collectBusiness(rows)
	if err != nil {
		return nil, err
	}

	set := &portsrepo.UnreconciledSet{Statements: statements}
	for _, txn := range business {
		if txn.Type == domain.Incoming {
			set.Incoming = append(set.Incoming, txn)
		} else {
			set.Outgoing = append(set.Outgoing, txn)
		}
	}
	return set, nil
}

func (r *transactionRepository) FindStatementTransactionByID(ctx context.Context, transactionID string) (*domain.StatementTransaction, error) {
	query := `SELECT ` + statementColumns + ` FROM statement_transactions WHERE transaction_id = $1;`
	txn, err := scanStatement(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find statement transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

func (r *transactionRepository) FindBusinessTransactionByID(ctx context.Context, transactionID string) (*domain.BusinessTransaction, error) {
	query := `SELECT ` + businessColumns + ` FROM business_transactions WHERE transaction_id = $1;`
	txn, err := scanBusiness(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find business transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

func (r *transactionRepository) ListBusinessTransactionsInRange(ctx context.Context, start, end time.Time) ([]domain.BusinessTransaction, error) {
	query := `
		SELECT ` + businessColumns + `
		FROM business_transactions
		WHERE transaction_date >= $1 AND transaction_date <= $2
		ORDER BY transaction_date ASC;
	`
	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query business transactions in range: %w", err)
	}
	return collectBusiness(rows)
}

func collectStatements(rows pgx.Rows) ([]domain.StatementTransaction, error) {
	defer rows.Close()
	var txns []domain.StatementTransaction
	for rows.Next() {
		txn, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating statement transactions: %w", err)
	}
	return txns, nil
}

func collectBusiness(rows pgx.Rows) ([]domain.BusinessTransaction, error) {
	defer rows.Close()
	var txns []domain.BusinessTransaction
	for rows.Next() {
		txn, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating business transactions: %w", err)
	}
	return txns, nil
}

func scanStatement(row rowScanner) (*domain.StatementTransaction, error) {
	var txn domain.StatementTransaction
	var documentID *string
	err := row.Scan(
		&txn.TransactionID,
		&txn.AccountID,
		&documentID,
		&txn.TransactionDate,
		&txn.Description,
		&txn.Amount,
		&txn.TransactionType,
		&txn.IsMatched,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if documentID != nil {
		txn.DocumentID = *documentID
	}
	return &txn, nil
}

func scanBusiness(row rowScanner) (*domain.BusinessTransaction, error) {
	var txn domain.BusinessTransaction
	var documentID, vendorName, category *string
	err := row.Scan(
		&txn.TransactionID,
		&txn.AccountID,
		&documentID,
		&txn.Type,
		&txn.TransactionDate,
		&vendorName,
		&txn.Description,
		&category,
		&txn.Amount,
		&txn.ReconciliationStatus,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if documentID != nil {
		txn.DocumentID = *documentID
	}
	if vendorName != nil {
		txn.VendorName = *vendorName
	}
	if category != nil {
		txn.Category = *category
	}
	return &txn, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
