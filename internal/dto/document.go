package dto

import (
	"time"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// RegisterUploadRequest carries the metadata for a stored upload. The
// handler saves the raw bytes and computes the content hash before the
// service sees it.
type RegisterUploadRequest struct {
	OriginalName string `json:"originalName"`
	StoredName   string `json:"storedName"`
	FilePath     string `json:"filePath"`
	Source       string `json:"source"`
	DocTypeHint  string `json:"docType"` // declared by the uploader, may be empty
	SizeBytes    int64  `json:"sizeBytes"`
	ContentHash  string `json:"contentHash"`
}

// DocumentResponse defines the data returned for a document record.
type DocumentResponse struct {
	DocumentID       string                  `json:"documentID"`
	OriginalName     string                  `json:"originalName"`
	Source           string                  `json:"source"`
	SizeBytes        int64                   `json:"sizeBytes"`
	ContentHash      string                  `json:"contentHash"`
	DocumentType     domain.DocumentType     `json:"documentType"`
	ExtractedFields  map[string]string       `json:"extractedFields,omitempty"`
	Financial        domain.FinancialSummary `json:"financialData"`
	Confidence       float64                 `json:"confidence"`
	ExtractionMethod domain.ExtractionMethod `json:"extractionMethod"`
	ProcessingStatus domain.ProcessingStatus `json:"processingStatus"`
	ProcessedAt      *time.Time              `json:"processedAt,omitempty"`
	CreatedAt        time.Time               `json:"createdAt"`
}

// ToDocumentResponse converts a domain.Document to its response DTO.
func ToDocumentResponse(doc *domain.Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:       doc.DocumentID,
		OriginalName:     doc.OriginalName,
		Source:           doc.Source,
		SizeBytes:        doc.SizeBytes,
		ContentHash:      doc.ContentHash,
		DocumentType:     doc.DocumentType,
		ExtractedFields:  doc.ExtractedFields,
		Financial:        doc.Financial,
		Confidence:       doc.Confidence,
		ExtractionMethod: doc.ExtractionMethod,
		ProcessingStatus: doc.ProcessingStatus,
		ProcessedAt:      doc.ProcessedAt,
		CreatedAt:        doc.CreatedAt,
	}
}

// SkippedRow explains why one row of an imported tabular document was
// not turned into a transaction.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes a tabular import: how many rows became
// transactions and which rows were skipped and why.
type ImportResult struct {
	Created     int          `json:"created"`
	Skipped     []SkippedRow `json:"skipped,omitempty"`
	TotalAmount string       `json:"totalAmount,omitempty"`
	Confidence  float64      `json:"confidence"`
}
