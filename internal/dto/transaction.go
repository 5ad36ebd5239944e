package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// StatementTransactionInput is one statement line from a feed ingestion
// request. Amount is signed; Type may be omitted, in which case the
// sign decides (negative = debit).
type StatementTransactionInput struct {
	TransactionDate string          `json:"transactionDate" binding:"required,datetime=2006-01-02"`
	Description     string          `json:"description" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	TransactionType string          `json:"transactionType" binding:"omitempty,oneof=DEBIT CREDIT"`
}

// CreateStatementTransactionsRequest ingests a batch of statement lines
// for one account.
type CreateStatementTransactionsRequest struct {
	AccountID    string                      `json:"accountID" binding:"required"`
	DocumentID   string                      `json:"documentID"`
	Transactions []StatementTransactionInput `json:"transactions" binding:"required,min=1,dive"`
}

// CreateBusinessTransactionRequest records one ledger entry.
type CreateBusinessTransactionRequest struct {
	AccountID       string          `json:"accountID" binding:"required"`
	DocumentID      string          `json:"documentID"`
	Type            string          `json:"type" binding:"required,oneof=OUTGOING INCOMING"`
	TransactionDate string          `json:"transactionDate" binding:"required,datetime=2006-01-02"`
	VendorName      string          `json:"vendorName"`
	Description     string          `json:"description" binding:"required"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
}

// StatementTransactionResponse mirrors domain.StatementTransaction.
type StatementTransactionResponse struct {
	TransactionID   string                 `json:"transactionID"`
	AccountID       string                 `json:"accountID"`
	TransactionDate time.Time              `json:"transactionDate"`
	Description     string                 `json:"description"`
	Amount          decimal.Decimal        `json:"amount"`
	TransactionType domain.TransactionType `json:"transactionType"`
	IsMatched       bool                   `json:"isMatched"`
}

// ToStatementTransactionResponse converts a domain statement transaction.
func ToStatementTransactionResponse(txn domain.StatementTransaction) StatementTransactionResponse {
	return StatementTransactionResponse{
		TransactionID:   txn.TransactionID,
		AccountID:       txn.AccountID,
		TransactionDate: txn.TransactionDate,
		Description:     txn.Description,
		Amount:          txn.Amount,
		TransactionType: txn.TransactionType,
		IsMatched:       txn.IsMatched,
	}
}

// BusinessTransactionResponse mirrors domain.BusinessTransaction.
type BusinessTransactionResponse struct {
	TransactionID        string                         `json:"transactionID"`
	AccountID            string                         `json:"accountID"`
	Type                 domain.BusinessTransactionType `json:"type"`
	TransactionDate      time.Time                      `json:"transactionDate"`
	VendorName           string                         `json:"vendorName,omitempty"`
	Description          string                         `json:"description"`
	Category             string                         `json:"category,omitempty"`
	Amount               decimal.Decimal                `json:"amount"`
	ReconciliationStatus domain.ReconciliationStatus    `json:"reconciliationStatus"`
}

// ToBusinessTransactionResponse converts a domain business transaction.
func ToBusinessTransactionResponse(txn *domain.BusinessTransaction) BusinessTransactionResponse {
	return BusinessTransactionResponse{
		TransactionID:        txn.TransactionID,
		AccountID:            txn.AccountID,
		Type:                 txn.Type,
		TransactionDate:      txn.TransactionDate,
		VendorName:           txn.VendorName,
		Description:          txn.Description,
		Category:             txn.Category,
		Amount:               txn.Amount,
		ReconciliationStatus: txn.ReconciliationStatus,
	}
}
