package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendorpay/vendorpay_backend/internal/apperrors"
	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
	portsrepo "github.com/vendorpay/vendorpay_backend/internal/core/ports/repositories"
)

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new repository for document records.
func NewDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &documentRepository{pool: pool}
}

var _ portsrepo.DocumentRepositoryFacade = (*documentRepository)(nil)

const documentColumns = `document_id, original_name, stored_name, file_path, source, content_hash, size_bytes,
		document_type, extracted_fields, financial_data, confidence, extraction_method, processing_status,
		processed_at, created_at, created_by, last_updated_at, last_updated_by`

func (r *documentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	fieldsJSON, financialJSON, err := marshalDocumentPayloads(doc)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = r.pool.Exec(ctx, query,
		doc.DocumentID,
		doc.OriginalName,
		doc.StoredName,
		doc.FilePath,
		doc.Source,
		doc.ContentHash,
		doc.SizeBytes,
		doc.DocumentType,
		fieldsJSON,
		financialJSON,
		doc.Confidence,
		doc.ExtractionMethod,
		doc.ProcessingStatus,
		doc.ProcessedAt,
		doc.CreatedAt,
		doc.CreatedBy,
		doc.LastUpdatedAt,
		doc.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: document with hash %s", apperrors.ErrDuplicate, doc.ContentHash)
		}
		return fmt.Errorf("failed to save document %s: %w", doc.DocumentID, err)
	}
	return nil
}

func (r *documentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1;`
	return r.scanDocument(r.pool.QueryRow(ctx, query, documentID), documentID)
}

func (r *documentRepository) FindDocumentByHash(ctx context.Context, contentHash string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE content_hash = $1;`
	return r.scanDocument(r.pool.QueryRow(ctx, query, contentHash), contentHash)
}

func (r *documentRepository) ListDocumentsByStatus(ctx context.Context, status domain.ProcessingStatus, limit int) ([]domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE processing_status = $1
		ORDER BY created_at ASC
		LIMIT $2;
	`
	rows, err := r.pool.Query(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents by status %s: %w", status, err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocumentRow(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating documents: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) UpdateProcessingStatus(ctx context.Context, documentID string, status domain.ProcessingStatus) error {
	query := `
		UPDATE documents
		SET processing_status = $2, last_updated_at = $3
		WHERE document_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, documentID, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update status for document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *documentRepository) UpdateProcessingResult(ctx context.Context, doc domain.Document) error {
	fieldsJSON, financialJSON, err := marshalDocumentPayloads(doc)
	if err != nil {
		return err
	}

	query := `
		UPDATE documents
		SET document_type = $2, extracted_fields = $3, financial_data = $4, confidence = $5,
			extraction_method = $6, processing_status = $7, processed_at = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE document_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		doc.DocumentID,
		doc.DocumentType,
		fieldsJSON,
		financialJSON,
		doc.Confidence,
		doc.ExtractionMethod,
		doc.ProcessingStatus,
		doc.ProcessedAt,
		doc.LastUpdatedAt,
		doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to store result for document %s: %w", doc.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// rowScanner covers pgx.Row and pgx.Rows for shared scan code.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *documentRepository) scanDocument(row pgx.Row, key string) (*domain.Document, error) {
	doc, err := scanDocumentRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document %s: %w", key, err)
	}
	return doc, nil
}

func scanDocumentRow(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var fieldsJSON, financialJSON []byte

	err := row.Scan(
		&doc.DocumentID,
		&doc.OriginalName,
		&doc.StoredName,
		&doc.FilePath,
		&doc.Source,
		&doc.ContentHash,
		&doc.SizeBytes,
		&doc.DocumentType,
		&fieldsJSON,
		&financialJSON,
		&doc.Confidence,
		&doc.ExtractionMethod,
		&doc.ProcessingStatus,
		&doc.ProcessedAt,
		&doc.CreatedAt,
		&doc.CreatedBy,
		&doc.LastUpdatedAt,
		&doc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if len(fieldsJSON) > 0 {
		if err := json.Unmarshal(fieldsJSON, &doc.ExtractedFields); err != nil {
			return nil, fmt.Errorf("failed to decode extracted fields for document %s: %w", doc.DocumentID, err)
		}
	}
	if len(financialJSON) > 0 {
		if err := json.Unmarshal(financialJSON, &doc.Financial); err != nil {
			return nil, fmt.Errorf("failed to decode financial data for document %s: %w", doc.DocumentID, err)
		}
	}
	return &doc, nil
}

func marshalDocumentPayloads(doc domain.Document) ([]byte, []byte, error) {
	fieldsJSON, err := json.Marshal(doc.ExtractedFields)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode extracted fields for document %s: %w", doc.DocumentID, err)
	}
	financialJSON, err := json.Marshal(doc.Financial)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode financial data for document %s: %w", doc.DocumentID, err)
	}
	return fieldsJSON, financialJSON, nil
}
