package dto

import (
	"time"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// CashFlowReportResponse is the API shape of a period cash flow report.
// Decimal totals are rendered as strings to avoid float precision loss
// on the wire.
type CashFlowReportResponse struct {
	StartDate        string                             `json:"startDate"`
	EndDate          string                             `json:"endDate"`
	TotalIncome      string                             `json:"totalIncome"`
	TotalExpenses    string                             `json:"totalExpenses"`
	NetCashFlow      string                             `json:"netCashFlow"`
	IncomeBreakdown  map[string]string                  `json:"incomeBreakdown"`
	ExpenseBreakdown map[string]string                  `json:"expenseBreakdown"`
	Reconciliation   domain.ReconciliationStatusSummary `json:"reconciliationStatus"`
	GeneratedAt      time.Time                          `json:"generatedAt"`
}

// ToCashFlowReportResponse converts a domain report.
func ToCashFlowReportResponse(report *domain.CashFlowReport) CashFlowReportResponse {
	income := make(map[string]string, len(report.IncomeBreakdown))
	for category, amount := range report.IncomeBreakdown {
		income[category] = amount.StringFixed(2)
	}
	expenses := make(map[string]string, len(report.ExpenseBreakdown))
	for category, amount := range report.ExpenseBreakdown {
		expenses[category] = amount.StringFixed(2)
	}
	return CashFlowReportResponse{
		StartDate:        report.Period.StartDate.Format("2006-01-02"),
		EndDate:          report.Period.EndDate.Format("2006-01-02"),
		TotalIncome:      report.Summary.TotalIncome.StringFixed(2),
		TotalExpenses:    report.Summary.TotalExpenses.StringFixed(2),
		NetCashFlow:      report.Summary.NetCashFlow.StringFixed(2),
		IncomeBreakdown:  income,
		ExpenseBreakdown: expenses,
		Reconciliation:   report.Reconciliation,
		GeneratedAt:      report.GeneratedAt,
	}
}
