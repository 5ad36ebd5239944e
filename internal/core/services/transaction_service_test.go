package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vendorpay/vendorpay_backend/internal/apperrors"
	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
	portssvc "github.com/vendorpay/vendorpay_backend/internal/core/ports/services"
	"github.com/vendorpay/vendorpay_backend/internal/core/services"
	"github.com/vendorpay/vendorpay_backend/internal/dto"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockRepo *MockTransactionRepository
	service  portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTransactionRepository)
	suite.service = services.NewTransactionService(suite.mockRepo)
}

func (suite *TransactionServiceTestSuite) TestCreateStatementTransactions() {
	ctx := context.Background()
	req := dto.CreateStatementTransactionsRequest{
		AccountID: "acc-1",
		Transactions: []dto.StatementTransactionInput{
			{TransactionDate: "2024-02-01", Description: "ACME PAYMENT", Amount: decimal.RequireFromString("-1014.69")},
			{TransactionDate: "2024-02-03", Description: "DEPOSIT", Amount: decimal.RequireFromString("2500.00"), TransactionType: "CREDIT"},
		},
	}

	suite.mockRepo.On("SaveStatementTransactions", ctx, mock.MatchedBy(func(txns []domain.StatementTransaction) bool {
		return len(txns) == 2 &&
			txns[0].TransactionType == domain.Debit && // sign fallback
			txns[1].TransactionType == domain.Credit &&
			txns[0].TransactionID != "" &&
			txns[0].AccountID == "acc-1"
	})).Return(nil).Once()

	txns, err := suite.service.CreateStatementTransactions(ctx, req)

	suite.Require().NoError(err)
	suite.Len(txns, 2)
	suite.False(txns[0].IsMatched)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateStatementTransactions_BadDate() {
	ctx := context.Background()
	req := dto.CreateStatementTransactionsRequest{
		AccountID: "acc-1",
		Transactions: []dto.StatementTransactionInput{
			{TransactionDate: "February 1", Description: "X", Amount: decimal.NewFromInt(1)},
		},
	}

	txns, err := suite.service.CreateStatementTransactions(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(txns)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveStatementTransactions", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateBusinessTransaction() {
	ctx := context.Background()
	req := dto.CreateBusinessTransactionRequest{
		AccountID:       "acc-1",
		Type:            "OUTGOING",
		TransactionDate: "2024-02-10",
		VendorName:      "Acme Corp",
		Description:     "Office supplies",
		Category:        "supplies",
		Amount:          decimal.RequireFromString("1014.69"),
	}

	suite.mockRepo.On("SaveBusinessTransaction", ctx, mock.MatchedBy(func(txn domain.BusinessTransaction) bool {
		return txn.Type == domain.Outgoing &&
			txn.ReconciliationStatus == domain.Unreconciled &&
			txn.TransactionID != ""
	})).Return(nil).Once()

	txn, err := suite.service.CreateBusinessTransaction(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(domain.Unreconciled, txn.ReconciliationStatus)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateBusinessTransaction_NegativeAmount() {
	ctx := context.Background()
	req := dto.CreateBusinessTransactionRequest{
		AccountID:       "acc-1",
		Type:            "OUTGOING",
		TransactionDate: "2024-02-10",
		Description:     "Bad entry",
		Amount:          decimal.RequireFromString("-5.00"),
	}

	txn, err := suite.service.CreateBusinessTransaction(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(txn)
}

func (suite *TransactionServiceTestSuite) TestImportStatementCSV() {
	ctx := context.Background()
	csvData := `Date,Description,Amount
02/01/2024,ACME PAYMENT,-1014.69
garbage-row,BROKEN,1.00`

	suite.mockRepo.On("SaveStatementTransactions", ctx, mock.MatchedBy(func(txns []domain.StatementTransaction) bool {
		return len(txns) == 1 && txns[0].AccountID == "acc-1" && txns[0].TransactionID != ""
	})).Return(nil).Once()

	result, err := suite.service.ImportStatementCSV(ctx, "acc-1", strings.NewReader(csvData))

	suite.Require().NoError(err)
	suite.Equal(1, result.Created)
	suite.Require().Len(result.Skipped, 1)
	suite.Equal(3, result.Skipped[0].Row)
	suite.Equal(float64(90), result.Confidence)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestImportStatementCSV_EmptyFileFailsValidation() {
	ctx := context.Background()

	result, err := suite.service.ImportStatementCSV(ctx, "acc-1", strings.NewReader(""))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(result)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveStatementTransactions", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestImportStatementCSV_AllRowsSkippedSavesNothing() {
	ctx := context.Background()
	csvData := `Date,Description,Amount
bad,BROKEN,xx`

	result, err := suite.service.ImportStatementCSV(ctx, "acc-1", strings.NewReader(csvData))

	suite.Require().NoError(err)
	suite.Equal(0, result.Created)
	assert.Len(suite.T(), result.Skipped, 1)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveStatementTransactions", mock.Anything, mock.Anything)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
