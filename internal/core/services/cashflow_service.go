package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendorpay/vendorpay_backend/internal/apperrors"
	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
	portsrepo "github.com/vendorpay/vendorpay_backend/internal/core/ports/repositories"
	portssvc "github.com/vendorpay/vendorpay_backend/internal/core/ports/services"
)

const uncategorized = "uncategorized"

type cashflowService struct {
	txnRepo   portsrepo.TransactionRepositoryFacade
	reconRepo portsrepo.ReconciliationRepositoryFacade
}

// NewCashflowService creates the period reporting service.
func NewCashflowService(txnRepo portsrepo.TransactionRepositoryFacade, reconRepo portsrepo.ReconciliationRepositoryFacade) portssvc.CashflowSvcFacade {
	return &cashflowService{txnRepo: txnRepo, reconRepo: reconRepo}
}

var _ portssvc.CashflowSvcFacade = (*cashflowService)(nil)

// Report aggregates the period's business transactions. Only matched
// transactions count toward the cash flow totals and breakdowns; the
// reconciliation summary covers everything in the period.
func (s *cashflowService) Report(ctx context.Context, start, end time.Time) (*domain.CashFlowReport, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: report end date precedes start date", apperrors.ErrValidation)
	}

	txns, err := s.txnRepo.ListBusinessTransactionsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for report: %w", err)
	}

	report := &domain.CashFlowReport{
		Period:           domain.CashFlowPeriod{StartDate: start, EndDate: end},
		IncomeBreakdown:  map[string]decimal.Decimal{},
		ExpenseBreakdown: map[string]decimal.Decimal{},
		GeneratedAt:      time.Now().UTC(),
	}

	for _, txn := range txns {
		report.Reconciliation.TotalTransactionsInPeriod++
		switch txn.ReconciliationStatus {
		case domain.Matched:
			report.Reconciliation.ReconciledTransactions++
		case domain.Disputed:
			report.Reconciliation.DisputedCount++
		default:
			report.Reconciliation.UnreconciledCount++
		}

		if txn.ReconciliationStatus != domain.Matched {
			continue
		}

		category := txn.Category
		if category == "" {
			category = uncategorized
		}
		if txn.Type == domain.Incoming {
			report.Summary.TotalIncome = report.Summary.TotalIncome.Add(txn.Amount)
			report.IncomeBreakdown[category] = report.IncomeBreakdown[category].Add(txn.Amount)
		} else {
			report.Summary.TotalExpenses = report.Summary.TotalExpenses.Add(txn.Amount)
			report.ExpenseBreakdown[category] = report.ExpenseBreakdown[category].Add(txn.Amount)
		}
	}

	report.Summary.NetCashFlow = report.Summary.TotalIncome.Sub(report.Summary.TotalExpenses)
	if total := report.Reconciliation.TotalTransactionsInPeriod; total > 0 {
		report.Reconciliation.ReconciledRate = float64(report.Reconciliation.ReconciledTransactions) / float64(total)
	}

	records, err := s.reconRepo.FindRecordsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliation records for report: %w", err)
	}
	if len(records) > 0 {
		report.Reconciliation.MatchTypeBreakdown = map[domain.MatchType]int{}
		for _, record := range records {
			report.Reconciliation.MatchTypeBreakdown[record.MatchType]++
		}
	}
	return report, nil
}
