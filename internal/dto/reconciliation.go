package dto

import (
	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// ReconcileRequest triggers one reconciliation run, optionally scoped.
type ReconcileRequest struct {
	AccountID *string `json:"accountID"`
	StartDate *string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// MatchResponse is one confirmed statement/business pairing.
type MatchResponse struct {
	StatementTransactionID  string                         `json:"statementTransactionID"`
	BusinessTransactionID   string                         `json:"businessTransactionID"`
	BusinessTransactionType domain.BusinessTransactionType `json:"businessTransactionType"`
	MatchType               domain.MatchType               `json:"matchType"`
	ConfidenceScore         float64                        `json:"confidenceScore"`
}

// ReconciliationResponse is the API shape of one reconciliation run.
type ReconciliationResponse struct {
	ExactMatches        []MatchResponse              `json:"exactMatches"`
	FuzzyMatches        []MatchResponse              `json:"fuzzyMatches"`
	AmountMatches       []MatchResponse              `json:"amountMatches"`
	DateMatches         []MatchResponse              `json:"dateMatches"`
	UnmatchedStatements int                          `json:"unmatchedStatements"`
	UnmatchedBusiness   int                          `json:"unmatchedBusiness"`
	Inconsistencies     []string                     `json:"inconsistencies,omitempty"`
	Summary             domain.ReconciliationSummary `json:"reconciliationSummary"`
}

func toMatchResponses(matches []domain.Match) []MatchResponse {
	out := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchResponse{
			StatementTransactionID:  m.Statement.TransactionID,
			BusinessTransactionID:   m.Business.TransactionID,
			BusinessTransactionType: m.Direction,
			MatchType:               m.Type,
			ConfidenceScore:         m.Confidence,
		})
	}
	return out
}

// MatchDetailResponse is the API shape of one persisted match lookup.
type MatchDetailResponse struct {
	RecordID        string                       `json:"recordID"`
	MatchType       domain.MatchType             `json:"matchType"`
	ConfidenceScore float64                      `json:"confidenceScore"`
	ReconciledBy    string                       `json:"reconciledBy"`
	Statement       StatementTransactionResponse `json:"statementTransaction"`
	Business        BusinessTransactionResponse  `json:"businessTransaction"`
}

// ToMatchDetailResponse converts a match lookup result.
func ToMatchDetailResponse(detail *domain.MatchDetail) MatchDetailResponse {
	return MatchDetailResponse{
		RecordID:        detail.Record.RecordID,
		MatchType:       detail.Record.MatchType,
		ConfidenceScore: detail.Record.ConfidenceScore,
		ReconciledBy:    detail.Record.ReconciledBy,
		Statement:       ToStatementTransactionResponse(detail.Statement),
		Business:        ToBusinessTransactionResponse(&detail.Business),
	}
}

// ToReconciliationResponse converts a reconciliation run result.
func ToReconciliationResponse(result *domain.ReconciliationResult) ReconciliationResponse {
	return ReconciliationResponse{
		ExactMatches:        toMatchResponses(result.ExactMatches),
		FuzzyMatches:        toMatchResponses(result.FuzzyMatches),
		AmountMatches:       toMatchResponses(result.AmountMatches),
		DateMatches:         toMatchResponses(result.DateMatches),
		UnmatchedStatements: len(result.UnmatchedStatements),
		UnmatchedBusiness:   len(result.UnmatchedBusiness),
		Inconsistencies:     result.Inconsistencies,
		Summary:             result.Summary,
	}
}
