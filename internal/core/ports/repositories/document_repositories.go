package repositories

import (
	"context"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// DocumentReader defines read operations for document records.
type DocumentReader interface {
	// FindDocumentByID retrieves a specific document by its unique identifier.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// FindDocumentByHash retrieves a document by its content hash.
	// Used as the idempotency check on upload.
	FindDocumentByHash(ctx context.Context, contentHash string) (*domain.Document, error)

	// ListDocumentsByStatus retrieves documents in a given processing state,
	// oldest first, up to limit.
	ListDocumentsByStatus(ctx context.Context, status domain.ProcessingStatus, limit int) ([]domain.Document, error)
}

// DocumentWriter defines write operations for document records.
type DocumentWriter interface {
	// SaveDocument persists a new document record.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// UpdateProcessingStatus transitions a document's lifecycle state.
	UpdateProcessingStatus(ctx context.Context, documentID string, status domain.ProcessingStatus) error

	// UpdateProcessingResult stores the full pipeline output for a document
	// along with its terminal status.
	UpdateProcessingResult(ctx context.Context, doc domain.Document) error
}

// DocumentRepositoryFacade combines all document repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
