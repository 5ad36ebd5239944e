package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a statement line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// BusinessTransactionType distinguishes the two business ledger variants.
type BusinessTransactionType string

const (
	Outgoing BusinessTransactionType = "OUTGOING" // expense / vendor payment
	Incoming BusinessTransactionType = "INCOMING" // revenue / sales
)

// ReconciliationStatus tracks a business transaction through reconciliation.
// Within this system the only transition is UNRECONCILED -> MATCHED;
// disputes are an external workflow.
type ReconciliationStatus string

const (
	Unreconciled ReconciliationStatus = "UNRECONCILED"
	Matched      ReconciliationStatus = "MATCHED"
	Disputed     ReconciliationStatus = "DISPUTED"
)

// StatementTransaction is a line item from an external bank/card feed,
// not yet linked to internal bookkeeping. Amount is signed; a negative
// amount or an explicit Debit type indicates money leaving the account.
type StatementTransaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (UUID)
	AccountID       string          `json:"accountID"`
	DocumentID      string          `json:"documentID,omitempty"` // Source document, if ingested from one
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"` // Signed; precise decimal type
	TransactionType TransactionType `json:"transactionType"`
	IsMatched       bool            `json:"isMatched"`
	AuditFields
}

// AbsAmount returns the unsigned magnitude of the statement amount, which
// is what matchers compare against business transaction amounts.
func (s StatementTransaction) AbsAmount() decimal.Decimal {
	return s.Amount.Abs()
}

// BusinessTransaction is an internally recorded outgoing (expense) or
// incoming (revenue) transaction awaiting confirmation against a
// statement. Amount is unsigned; direction is implied by Type.
type BusinessTransaction struct {
	TransactionID        string                  `json:"transactionID"` // Primary Key (UUID)
	AccountID            string                  `json:"accountID"`
	DocumentID           string                  `json:"documentID,omitempty"`
	Type                 BusinessTransactionType `json:"type"`
	TransactionDate      time.Time               `json:"transactionDate"`
	VendorName           string                  `json:"vendorName,omitempty"` // Outgoing only, may be empty
	Description          string                  `json:"description"`
	Category             string                  `json:"category,omitempty"`
	Amount               decimal.Decimal         `json:"amount"` // Unsigned
	ReconciliationStatus ReconciliationStatus    `json:"reconciliationStatus"`
	AuditFields
}

// ExpectedStatementType returns the statement direction that a business
// transaction of this variant should align with: outgoing money appears
// as a debit on the statement, incoming as a credit.
func (t BusinessTransactionType) ExpectedStatementType() TransactionType {
	if t == Incoming {
		return Credit
	}
	return Debit
}
