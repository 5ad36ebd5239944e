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

type reconciliationRepository struct {
	pool *pgxpool.Pool
}

// NewReconciliationRepository creates a new repository for reconciliation
// records.
func NewReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &reconciliationRepository{pool: pool}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*reconciliationRepository)(nil)

const reconciliationColumns = `record_id, statement_transaction_id, business_transaction_id,
		business_transaction_type, match_type, confidence_score, reconciled_by,
		created_at, created_by, last_updated_at, last_updated_by`

// SaveReconciliation applies one confirmed match: insert the record, flip
// the statement line to matched, flip the business transaction to
// MATCHED. All three run in one database transaction; a failed step
// rolls the whole match back and comes back as a
// *apperrors.ReconciliationInconsistencyError naming the step.
func (r *reconciliationRepository) SaveReconciliation(ctx context.Context, record domain.ReconciliationRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin reconciliation transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore rollback error
	}()

	insertQuery := `
		INSERT INTO reconciliation_records (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, insertQuery,
		record.RecordID,
		record.StatementTransactionID,
		record.BusinessTransactionID,
		record.BusinessTransactionType,
		record.MatchType,
		record.ConfidenceScore,
		record.ReconciledBy,
		record.CreatedAt,
		record.CreatedBy,
		record.LastUpdatedAt,
		record.LastUpdatedBy,
	)
	if err != nil {
		return inconsistency(record, "insert_record", err)
	}

	stmtQuery := `
		UPDATE statement_transactions
		SET is_matched = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $1 AND is_matched = FALSE;
	`
	tag, err := tx.Exec(ctx, stmtQuery, record.StatementTransactionID, record.LastUpdatedAt, record.ReconciledBy)
	if err != nil {
		return inconsistency(record, "flip_statement", err)
	}
	if tag.RowsAffected() == 0 {
		return inconsistency(record, "flip_statement", errors.New("statement transaction missing or already matched"))
	}

	bizQuery := `
		UPDATE business_transactions
		SET reconciliation_status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND reconciliation_status = $5;
	`
	tag, err = tx.Exec(ctx, bizQuery, record.BusinessTransactionID, domain.Matched, record.LastUpdatedAt, record.ReconciledBy, domain.Unreconciled)
	if err != nil {
		return inconsistency(record, "flip_business", err)
	}
	if tag.RowsAffected() == 0 {
		return inconsistency(record, "flip_business", errors.New("business transaction missing or already reconciled"))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reconciliation %s: %w", record.RecordID, err)
	}
	return nil
}

func (r *reconciliationRepository) FindRecordsInRange(ctx context.Context, start, end time.Time) ([]domain.ReconciliationRecord, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM reconciliation_records
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC;
	`
	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation records: %w", err)
	}
	defer rows.Close()

	var records []domain.ReconciliationRecord
	for rows.Next() {
		record, err := scanReconciliation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation record: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating reconciliation records: %w", err)
	}
	return records, nil
}

func (r *reconciliationRepository) FindRecordByStatementTransaction(ctx context.Context, statementTransactionID string) (*domain.ReconciliationRecord, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM reconciliation_records WHERE statement_transaction_id = $1;`
	record, err := scanReconciliation(r.pool.QueryRow(ctx, query, statementTransactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reconciliation for statement %s: %w", statementTransactionID, err)
	}
	return record, nil
}

func scanReconciliation(row rowScanner) (*domain.ReconciliationRecord, error) {
	var record domain.ReconciliationRecord
	err := row.Scan(
		&record.RecordID,
		&record.StatementTransactionID,
		&record.BusinessTransactionID,
		&record.BusinessTransactionType,
		&record.MatchType,
		&record.ConfidenceScore,
		&record.ReconciledBy,
		&record.CreatedAt,
		&record.CreatedBy,
		&record.LastUpdatedAt,
		&record.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func inconsistency(record domain.ReconciliationRecord, step string, cause error) error {
	return &apperrors.ReconciliationInconsistencyError{
		StatementTransactionID: record.StatementTransactionID,
		BusinessTransactionID:  record.BusinessTransactionID,
		MatchType:              string(record.MatchType),
		FailedStep:             step,
		Cause:                  cause,
	}
}
