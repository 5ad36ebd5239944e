package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vendorpay/vendorpay_backend/internal/apperrors"
	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
	portsrepo "github.com/vendorpay/vendorpay_backend/internal/core/ports/repositories"
	portssvc "github.com/vendorpay/vendorpay_backend/internal/core/ports/services"
	"github.com/vendorpay/vendorpay_backend/internal/core/services"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockTxnRepo   *MockTransactionRepository
	mockReconRepo *MockReconciliationRepository
	service       portssvc.ReconciliationSvcFacade
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.service = services.NewReconciliationService(suite.mockTxnRepo, suite.mockReconRepo, 0.8)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func statement(id, amount string, txnType domain.TransactionType, date time.Time, desc string) domain.StatementTransaction {
	return domain.StatementTransaction{
		TransactionID:   id,
		AccountID:       "acc-1",
		TransactionDate: date,
		Description:     desc,
		Amount:          decimal.RequireFromString(amount),
		TransactionType: txnType,
	}
}

func business(id, amount string, bizType domain.BusinessTransactionType, date time.Time, desc string) domain.BusinessTransaction {
	return domain.BusinessTransaction{
		TransactionID:        id,
		AccountID:            "acc-1",
		Type:                 bizType,
		TransactionDate:      date,
		Description:          desc,
		Amount:               decimal.RequireFromString(amount),
		ReconciliationStatus: domain.Unreconciled,
	}
}

func (suite *ReconciliationServiceTestSuite) expectUnreconciled(set *portsrepo.UnreconciledSet) {
	suite.mockTxnRepo.On("FindUnreconciled", mock.Anything, (*string)(nil)).Return(set, nil).Once()
}

func (suite *ReconciliationServiceTestSuite) TestExactMatchEndToEnd() {
	ctx := context.Background()
	suite.expectUnreconciled(&portsrepo.UnreconciledSet{
		Statements: []domain.StatementTransaction{
			statement("stmt-1", "-1014.69", domain.Debit, day(2024, 2, 12), "ACME CORP PAYMENT"),
		},
		Outgoing: []domain.BusinessTransaction{
			business("biz-1", "1014.69", domain.Outgoing, day(2024, 2, 10), "Acme Corp invoice"),
		},
	})
	suite.mockReconRepo.On("SaveReconciliation", mock.Anything, mock.MatchedBy(func(r domain.ReconciliationRecord) bool {
		return r.StatementTransactionID == "stmt-1" &&
			r.BusinessTransactionID == "biz-1" &&
			r.MatchType == domain.MatchExact &&
			r.ConfidenceScore == 1.0 &&
			r.ReconciledBy == "system"
	})).Return(nil).Once()

	result, err := suite.service.Reconcile(ctx, nil, nil, nil)

	suite.Require().NoError(err)
	suite.Require().Len(result.ExactMatches, 1)
	suite.Equal(1, result.Summary.TotalMatches)
	suite.Equal(0, result.Summary.UnmatchedStatements)
	suite.Equal(1.0, result.Summary.ReconciliationRate)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestFuzzyMatchWhenAmountsDrift() {
	ctx := context.Background()
	// A cent-and-a-half short of exact tolerance but well inside the
	// fuzzy 5% window, same day, near identical descriptions.
	suite.expectUnreconciled(&portsrepo.UnreconciledSet{
		Statements: []domain.StatementTransaction{
			statement("stmt-1", "-248.50", domain.Debit, day(2024, 2, 10), "DEBIT PURCHASE ACME COFFEE CO"),
		},
		Outgoing: []domain.BusinessTransaction{
			business("biz-1", "250.00", domain.Outgoing, day(2024, 2, 10), "Acme Coffee Co"),
		},
	})
	suite.mockReconRepo.On("SaveReconciliation", mock.Anything, mock.MatchedBy(func(r domain.ReconciliationRecord) bool {
		return r.MatchType == domain.MatchFuzzy && r.ConfidenceScore >= 0.8 && r.ConfidenceScore <= 1.0
	})).Return(nil).Once()

	result, err := suite.service.Reconcile(ctx, nil, nil, nil)

	suite.Require().NoError(err)
	suite.Empty(result.ExactMatches)
	suite.Require().Len(result.FuzzyMatches, 1)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestAmountFallbackWhenDatesFarApart() {
	ctx := context.Background()
	// A month apart kills exact and fuzzy; the amount matcher ignores dates.
	suite.expectUnreconciled(&portsrepo.UnreconciledSet{
		Statements: []domain.StatementTransaction{
			statement("stmt-1", "-100.00", domain.Debit, day(2024, 2, 1), "MYSTERY CHARGE"),
		},
		Outgoing: []domain.BusinessTransaction{
			business("biz-1", "100.00", domain.Outgoing, day(2024, 3, 1), "Vendor retainer"),
		},
	})
	suite.mockReconRepo.On("SaveReconciliation", mock.Anything, mock.MatchedBy(func(r domain.ReconciliationRecord) bool {
		return r.MatchType == domain.MatchAmount
	})).Return(nil).Once()

	result, err := suite.service.Reconcile(ctx, nil, nil, nil)

	suite.Require().NoError(err)
	suite.Require().Len(result.AmountMatches, 1)
	suite.Equal(1.0, result.AmountMatches[0].Confidence)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestDateFallbackWhenAmountsDiffer() {
	ctx := context.Background()
	// Same day but amounts and descriptions are unrelated, so only the
	// date matcher can pair them.
	suite.expectUnreconciled(&portsrepo.UnreconciledSet{
		Statements: []domain.StatementTransaction{
			statement("stmt-1", "-75.00", domain.Debit, day(2024, 2, 10), "ZZZZ QQQQ"),
		},
		Outgoing: []domain.BusinessTransaction{
			business("biz-1", "900.00", domain.Outgoing, day(2024, 2, 10), "Completely different"),
		},
	})
	suite.mockReconRepo.On("SaveReconciliation", mock.Anything, mock.MatchedBy(func(r domain.ReconciliationRecord) bool {
		return r.MatchType == domain.MatchDate
	})).Return(nil).Once()

	result, err := suite.service.Reconcile(ctx, nil, nil, nil)

	suite.Require().NoError(err)
	suite.Require().Len(result.DateMatches, 1)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestEachTransactionMatchesAtMostOnce() {
	ctx := context.Background()
	// Two statement lines compete for one business transaction; only
	// one may win and the other stays unmatched.
	suite.expectUnreconciled(&portsrepo.UnreconciledSet{
		Statements: []domain.StatementTransaction{
			statement("stmt-1", "-500.00", domain.Debit, day(2024, 2, 10), "VENDOR PAYMENT A"),
			statement("stmt-2", "-500.00", domain.Debit, day(2024, 2, 10), "VENDOR PAYMENT B"),
		},
		Outgoing: []domain.BusinessTransaction{
			business("biz-1", "500.00", domain.Outgoing, day(2024, 2, 10), "Vendor payment"),
		},
	})
	suite.mockReconRepo.On("SaveReconciliation", mock.Anything, mock.AnythingOfType("domain.ReconciliationRecord")).Return(nil).Once()

	result, err := suite.service.Reconcile(ctx, nil, nil, nil)

	suite.Require().NoError(err)
	suite.Equal(1, result.Summary.TotalMatches)
	suite.Equal(1, result.Summary.UnmatchedStatements)
	suite.Equal("stmt-1", result.ExactMatches[0].Statement.TransactionID)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestDirectionMustAlign() {
	ctx := context.Background()
	// A debit cannot confirm incoming revenue, whatever the amount says.
	suite.expectUnreconciled(&portsrepo.UnreconciledSet{
		Statements: []domain.StatementTransaction{
			statement("stmt-1", "-500.00", domain.Debit, day(2024, 2, 10), "DAILY SALES"),
		},
		Incoming: []domain.BusinessTransaction{
			business("biz-1", "500.00", domain.Incoming, day(2024, 2, 10), "Daily sales"),
		},
	})

	result, err := suite.service.Reconcile(ctx, nil, nil, nil)

	suite.Require().NoError(err)
	suite.Equal(0, result.Summary.TotalMatches)
	suite.Equal(1, result.Summary.UnmatchedStatements)
	suite.Equal(1, result.Summary.UnmatchedBusiness)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveReconciliation", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestEmptySetYieldsZeroRate() {
	ctx := context.Background()
	suite.expectUnreconciled(&portsrepo.UnreconciledSet{})

	result, err := suite.service.Reconcile(ctx, nil, nil, nil)

	suite.Require().NoError(err)
	suite.Equal(0, result.Summary.TotalMatches)
	suite.Equal(0.0, result.Summary.ReconciliationRate)
}

func (suite *ReconciliationServiceTestSuite) TestRateCountsUnmatchedStatements() {
	ctx := context.Background()
	suite.expectUnreconciled(&portsrepo.UnreconciledSet{
		Statements: []domain.StatementTransaction{
			statement("stmt-1", "-500.00", domain.Debit, day(2024, 2, 10), "VENDOR PAYMENT"),
			statement("stmt-2", "-42.00", domain.Debit, day(2024, 6, 1), "NO COUNTERPART"),
		},
		Outgoing: []domain.BusinessTransaction{
			business("biz-1", "500.00", domain.Outgoing, day(2024, 2, 10), "Vendor payment"),
		},
	})
	suite.mockReconRepo.On("SaveReconciliation", mock.Anything, mock.AnythingOfType("domain.ReconciliationRecord")).Return(nil).Once()

	result, err := suite.service.Reconcile(ctx, nil, nil, nil)

	suite.Require().NoError(err)
	suite.Equal(0.5, result.Summary.ReconciliationRate)
	suite.GreaterOrEqual(result.Summary.ReconciliationRate, 0.0)
	suite.LessOrEqual(result.Summary.ReconciliationRate, 1.0)
}

func (suite *ReconciliationServiceTestSuite) TestDateRangeFilterScopesRun() {
	ctx := context.Background()
	from := day(2024, 2, 1)
	to := day(2024, 2, 28)
	suite.expectUnreconciled(&portsrepo.UnreconciledSet{
		Statements: []domain.StatementTransaction{
			statement("stmt-jan", "-500.00", domain.Debit, day(2024, 1, 15), "JANUARY CHARGE"),
		},
		Outgoing: []domain.BusinessTransaction{
			business("biz-jan", "500.00", domain.Outgoing, day(2024, 1, 15), "January charge"),
		},
	})

	result, err := suite.service.Reconcile(ctx, nil, &from, &to)

	suite.Require().NoError(err)
	suite.Equal(0, result.Summary.TotalMatches)
	suite.Empty(result.UnmatchedStatements)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveReconciliation", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestInconsistencyIsRecordedNotFatal() {
	ctx := context.Background()
	suite.expectUnreconciled(&portsrepo.UnreconciledSet{
		Statements: []domain.StatementTransaction{
			statement("stmt-1", "-500.00", domain.Debit, day(2024, 2, 10), "VENDOR PAYMENT"),
		},
		Outgoing: []domain.BusinessTransaction{
			business("biz-1", "500.00", domain.Outgoing, day(2024, 2, 10), "Vendor payment"),
		},
	})
	suite.mockReconRepo.On("SaveReconciliation", mock.Anything, mock.AnythingOfType("domain.ReconciliationRecord")).
		Return(&apperrors.ReconciliationInconsistencyError{
			StatementTransactionID: "stmt-1",
			BusinessTransactionID:  "biz-1",
			MatchType:              "EXACT",
			FailedStep:             "flip_business",
			Cause:                  assert.AnError,
		}).Once()

	result, err := suite.service.Reconcile(ctx, nil, nil, nil)

	suite.Require().NoError(err)
	suite.Require().Len(result.Inconsistencies, 1)
	suite.Contains(result.Inconsistencies[0], "flip_business")
	// The pair is still consumed so later passes cannot re-match it, but
	// the rolled-back write must not count as a match.
	suite.Empty(result.ExactMatches)
	suite.Equal(0, result.Summary.TotalMatches)
	suite.Equal(0, result.Summary.UnmatchedStatements)
	suite.Equal(0.0, result.Summary.ReconciliationRate)
}

func (suite *ReconciliationServiceTestSuite) TestStoreErrorAbortsRun() {
	ctx := context.Background()
	suite.expectUnreconciled(&portsrepo.UnreconciledSet{
		Statements: []domain.StatementTransaction{
			statement("stmt-1", "-500.00", domain.Debit, day(2024, 2, 10), "VENDOR PAYMENT"),
		},
		Outgoing: []domain.BusinessTransaction{
			business("biz-1", "500.00", domain.Outgoing, day(2024, 2, 10), "Vendor payment"),
		},
	})
	suite.mockReconRepo.On("SaveReconciliation", mock.Anything, mock.AnythingOfType("domain.ReconciliationRecord")).
		Return(assert.AnError).Once()

	result, err := suite.service.Reconcile(ctx, nil, nil, nil)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *ReconciliationServiceTestSuite) TestGetMatchForStatement() {
	ctx := context.Background()
	record := &domain.ReconciliationRecord{
		RecordID:               "rec-1",
		StatementTransactionID: "stmt-1",
		BusinessTransactionID:  "biz-1",
		MatchType:              domain.MatchExact,
		ConfidenceScore:        1.0,
		ReconciledBy:           "system",
	}
	stmt := statement("stmt-1", "-500.00", domain.Debit, day(2024, 2, 10), "VENDOR PAYMENT")
	biz := business("biz-1", "500.00", domain.Outgoing, day(2024, 2, 10), "Vendor payment")

	suite.mockReconRepo.On("FindRecordByStatementTransaction", mock.Anything, "stmt-1").Return(record, nil).Once()
	suite.mockTxnRepo.On("FindStatementTransactionByID", mock.Anything, "stmt-1").Return(&stmt, nil).Once()
	suite.mockTxnRepo.On("FindBusinessTransactionByID", mock.Anything, "biz-1").Return(&biz, nil).Once()

	detail, err := suite.service.GetMatchForStatement(ctx, "stmt-1")

	suite.Require().NoError(err)
	suite.Equal("rec-1", detail.Record.RecordID)
	suite.Equal("stmt-1", detail.Statement.TransactionID)
	suite.Equal("biz-1", detail.Business.TransactionID)
	suite.mockReconRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestGetMatchForStatement_NotFound() {
	ctx := context.Background()
	suite.mockReconRepo.On("FindRecordByStatementTransaction", mock.Anything, "stmt-none").Return(nil, apperrors.ErrNotFound).Once()

	detail, err := suite.service.GetMatchForStatement(ctx, "stmt-none")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(detail)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindStatementTransactionByID", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestFetchErrorPropagates() {
	ctx := context.Background()
	suite.mockTxnRepo.On("FindUnreconciled", mock.Anything, (*string)(nil)).Return(nil, assert.AnError).Once()

	result, err := suite.service.Reconcile(ctx, nil, nil, nil)

	suite.Require().Error(err)
	suite.Nil(result)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
