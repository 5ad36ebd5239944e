package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
	portsrepo "github.com/vendorpay/vendorpay_backend/internal/core/ports/repositories"
)

// --- Mock DocumentRepository ---
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindDocumentByHash(ctx context.Context, contentHash string) (*domain.Document, error) {
	args := m.Called(ctx, contentHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListDocumentsByStatus(ctx context.Context, status domain.ProcessingStatus, limit int) ([]domain.Document, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateProcessingStatus(ctx context.Context, documentID string, status domain.ProcessingStatus) error {
	args := m.Called(ctx, documentID, status)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateProcessingResult(ctx context.Context, doc domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindUnreconciled(ctx context.Context, accountID *string) (*portsrepo.UnreconciledSet, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.UnreconciledSet), args.Error(1)
}

func (m *MockTransactionRepository) FindStatementTransactionByID(ctx context.Context, transactionID string) (*domain.StatementTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindBusinessTransactionByID(ctx context.Context, transactionID string) (*domain.BusinessTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListBusinessTransactionsInRange(ctx context.Context, start, end time.Time) ([]domain.BusinessTransaction, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BusinessTransaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveStatementTransactions(ctx context.Context, txns []domain.StatementTransaction) error {
	args := m.Called(ctx, txns)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveBusinessTransaction(ctx context.Context, txn domain.BusinessTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveBusinessTransactions(ctx context.Context, txns []domain.BusinessTransaction) error {
	args := m.Called(ctx, txns)
	return args.Error(0)
}

// --- Mock ReconciliationRepository ---
type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) SaveReconciliation(ctx context.Context, record domain.ReconciliationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindRecordsInRange(ctx context.Context, start, end time.Time) ([]domain.ReconciliationRecord, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationRecord), args.Error(1)
}

func (m *MockReconciliationRepository) FindRecordByStatementTransaction(ctx context.Context, statementTransactionID string) (*domain.ReconciliationRecord, error) {
	args := m.Called(ctx, statementTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationRecord), args.Error(1)
}
