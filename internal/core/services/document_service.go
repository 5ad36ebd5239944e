package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vendorpay/vendorpay_backend/internal/apperrors"
	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
	portsrepo "github.com/vendorpay/vendorpay_backend/internal/core/ports/repositories"
	portssvc "github.com/vendorpay/vendorpay_backend/internal/core/ports/services"
	"github.com/vendorpay/vendorpay_backend/internal/dto"
	"github.com/vendorpay/vendorpay_backend/internal/extraction"
	"github.com/vendorpay/vendorpay_backend/internal/middleware"
)

var supportedUploadExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".csv":  true,
	".xlsx": true,
	".txt":  true,
	".json": true,
}

type documentService struct {
	docRepo   portsrepo.DocumentRepositoryFacade
	extractor *extraction.Extractor
	maxBytes  int64
}

// NewDocumentService creates the document pipeline service. maxBytes
// caps the accepted upload size; <=0 disables the cap.
func NewDocumentService(docRepo portsrepo.DocumentRepositoryFacade, extractor *extraction.Extractor, maxBytes int64) portssvc.DocumentSvcFacade {
	return &documentService{docRepo: docRepo, extractor: extractor, maxBytes: maxBytes}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

func (s *documentService) RegisterUpload(ctx context.Context, req dto.RegisterUploadRequest) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ext := strings.ToLower(filepath.Ext(req.OriginalName))
	if !supportedUploadExtensions[ext] {
		return nil, fmt.Errorf("%w: unsupported file type %q", apperrors.ErrValidation, ext)
	}
	if s.maxBytes > 0 && req.SizeBytes > s.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds maximum size of %d bytes", apperrors.ErrValidation, s.maxBytes)
	}
	if req.ContentHash == "" {
		return nil, fmt.Errorf("%w: content hash is required", apperrors.ErrValidation)
	}

	existing, err := s.docRepo.FindDocumentByHash(ctx, req.ContentHash)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate document: %w", err)
	}
	if existing != nil {
		logger.Info("Duplicate upload rejected",
			slog.String("content_hash", req.ContentHash),
			slog.String("existing_document_id", existing.DocumentID),
		)
		return existing, fmt.Errorf("%w: document with identical content already exists", apperrors.ErrDuplicate)
	}

	now := time.Now().UTC()
	doc := domain.Document{
		DocumentID:       uuid.NewString(),
		OriginalName:     req.OriginalName,
		StoredName:       req.StoredName,
		FilePath:         req.FilePath,
		Source:           req.Source,
		ContentHash:      req.ContentHash,
		SizeBytes:        req.SizeBytes,
		DocumentType:     domain.DocTypeUnknown,
		ProcessingStatus: domain.StatusPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.Source,
			LastUpdatedAt: now,
			LastUpdatedBy: req.Source,
		},
	}
	if hint := domain.DocumentType(req.DocTypeHint); hint != "" {
		doc.DocumentType = hint
	}

	if err := s.docRepo.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document record: %w", err)
	}

	logger.Info("Document registered",
		slog.String("document_id", doc.DocumentID),
		slog.String("original_name", doc.OriginalName),
		slog.Int64("size_bytes", doc.SizeBytes),
	)
	return &doc, nil
}

// Process runs the full pipeline over one pending document. Extraction
// failures never abort the pipeline: the extractor encodes them as a
// zero-confidence result and classification falls through to unknown.
// Only repository errors come back as errors.
func (s *documentService) Process(ctx context.Context, documentID string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.ProcessingStatus == domain.StatusProcessing {
		return nil, fmt.Errorf("%w: document %s is already being processed", apperrors.ErrValidation, documentID)
	}

	if err := s.docRepo.UpdateProcessingStatus(ctx, documentID, domain.StatusProcessing); err != nil {
		return nil, fmt.Errorf("failed to mark document processing: %w", err)
	}

	extracted := s.extractor.Extract(doc.FilePath)
	doc.Confidence = extracted.Confidence
	doc.ExtractionMethod = extracted.Method

	doc.DocumentType = extraction.Classify(extracted.Text)
	doc.ExtractedFields = extraction.ExtractFields(extracted.Text, doc.DocumentType)
	doc.Financial = extraction.ExtractFinancialSummary(extracted.Text)

	doc.ProcessingStatus = domain.StatusCompleted
	if extracted.Method == domain.MethodError || extracted.Method == domain.MethodUnsupported {
		doc.ProcessingStatus = domain.StatusFailed
	}
	now := time.Now().UTC()
	doc.ProcessedAt = &now
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = systemReconciler

	if err := s.docRepo.UpdateProcessingResult(ctx, *doc); err != nil {
		return nil, fmt.Errorf("failed to store processing result: %w", err)
	}

	logger.Info("Document processed",
		slog.String("document_id", doc.DocumentID),
		slog.String("document_type", string(doc.DocumentType)),
		slog.String("extraction_method", string(doc.ExtractionMethod)),
		slog.Float64("confidence", doc.Confidence),
		slog.String("status", string(doc.ProcessingStatus)),
	)
	return doc, nil
}

func (s *documentService) GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docRepo.FindDocumentByID(ctx, documentID)
}

const defaultPendingListLimit = 50

// ListPendingDocuments returns the oldest documents still awaiting
// processing, the work queue for batch processors.
func (s *documentService) ListPendingDocuments(ctx context.Context, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = defaultPendingListLimit
	}
	docs, err := s.docRepo.ListDocumentsByStatus(ctx, domain.StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending documents: %w", err)
	}
	return docs, nil
}
