package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ReconciliationInconsistencyError reports a match whose three-part write
// (reconciliation record insert plus the two status flips) only partially
// applied. It carries enough identifiers to replay or repair the match.
type ReconciliationInconsistencyError struct {
	StatementTransactionID string
	BusinessTransactionID  string
	MatchType              string
	FailedStep             string // e.g. "insert_record", "flip_statement", "flip_business"
	Cause                  error
}

func (e *ReconciliationInconsistencyError) Error() string {
	return fmt.Sprintf("reconciliation inconsistency: step %s failed for statement %s / business %s (%s match): %v",
		e.FailedStep, e.StatementTransactionID, e.BusinessTransactionID, e.MatchType, e.Cause)
}

func (e *ReconciliationInconsistencyError) Unwrap() error {
	return e.Cause
}
