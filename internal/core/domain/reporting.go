package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashFlowPeriod bounds a cash flow report.
type CashFlowPeriod struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// CashFlowSummary holds the headline totals for a period.
type CashFlowSummary struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetCashFlow   decimal.Decimal `json:"netCashFlow"`
}

// ReconciliationStatusSummary reports how much of the period's activity
// has been confirmed against statements.
type ReconciliationStatusSummary struct {
	ReconciledRate            float64           `json:"reconciledPercentage"` // in [0,1]
	UnreconciledCount         int               `json:"unreconciledTransactions"`
	DisputedCount             int               `json:"disputedTransactions"`
	ReconciledTransactions    int               `json:"reconciledTransactions"`
	TotalTransactionsInPeriod int               `json:"totalTransactions"`
	MatchTypeBreakdown        map[MatchType]int `json:"matchTypeBreakdown,omitempty"`
}

// CashFlowReport aggregates reconciled transactions for a date range.
// Pure aggregation over the reconciliation engine's output; no matching
// logic of its own.
type CashFlowReport struct {
	Period           CashFlowPeriod              `json:"period"`
	Summary          CashFlowSummary             `json:"summary"`
	IncomeBreakdown  map[string]decimal.Decimal  `json:"incomeBreakdown"`
	ExpenseBreakdown map[string]decimal.Decimal  `json:"expenseBreakdown"`
	Reconciliation   ReconciliationStatusSummary `json:"reconciliationStatus"`
	GeneratedAt      time.Time                   `json:"generatedAt"`
}
