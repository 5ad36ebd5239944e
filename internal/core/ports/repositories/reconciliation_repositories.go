package repositories

import (
	"context"
	"time"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// ReconciliationWriter persists confirmed matches.
type ReconciliationWriter interface {
	// SaveReconciliation inserts the reconciliation record AND flips the
	// statement transaction's is_matched flag and the business
	// transaction's reconciliation status, all within one database
	// transaction. A partial application must come back as a
	// *apperrors.ReconciliationInconsistencyError.
	SaveReconciliation(ctx context.Context, record domain.ReconciliationRecord) error
}

// ReconciliationReader defines read operations over reconciliation records.
type ReconciliationReader interface {
	// FindRecordsInRange retrieves reconciliation records created within
	// [start, end].
	FindRecordsInRange(ctx context.Context, start, end time.Time) ([]domain.ReconciliationRecord, error)

	// FindRecordByStatementTransaction retrieves the record linking the
	// given statement transaction, if any.
	FindRecordByStatementTransaction(ctx context.Context, statementTransactionID string) (*domain.ReconciliationRecord, error)
}

// ReconciliationRepositoryFacade combines the reconciliation interfaces.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}
