package domain

import "time"

// DocumentType identifies the class of a processed document.
type DocumentType string

const (
	DocTypeInvoice       DocumentType = "invoice"
	DocTypeBankStatement DocumentType = "bank_statement"
	DocTypeCheck         DocumentType = "check"
	DocTypeSalesReport   DocumentType = "sales_report"
	DocTypeReceipt       DocumentType = "receipt"
	DocTypeGeneral       DocumentType = "general_document"
	DocTypeUnknown       DocumentType = "unknown"
)

// ExtractionMethod identifies which strategy produced an extraction result.
// Downstream consumers weight confidence by method.
type ExtractionMethod string

const (
	MethodDirectRead      ExtractionMethod = "direct-read"
	MethodStructuredParse ExtractionMethod = "structured-parse"
	MethodOCR             ExtractionMethod = "ocr"
	MethodPDFDirect       ExtractionMethod = "pdf-direct"
	MethodPDFOCR          ExtractionMethod = "pdf-ocr"
	MethodUnsupported     ExtractionMethod = "unsupported"
	MethodError           ExtractionMethod = "error"
)

// ProcessingStatus tracks a document through the pipeline lifecycle.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "PENDING"
	StatusProcessing ProcessingStatus = "PROCESSING"
	StatusCompleted  ProcessingStatus = "COMPLETED"
	StatusFailed     ProcessingStatus = "FAILED"
)

// ExtractionResult is the immutable output of the text extractor for one
// document. Failures are encoded here (confidence 0, bracketed text),
// never raised to the caller.
type ExtractionResult struct {
	Text       string           `json:"text"`
	Confidence float64          `json:"confidence"` // 0-100
	Method     ExtractionMethod `json:"method"`
}

// FinancialSummary is the type-independent financial data pulled from any
// document's text.
type FinancialSummary struct {
	AmountsFound   []string `json:"amountsFound,omitempty"`
	MainTotal      string   `json:"mainTotal,omitempty"`
	DatesFound     []string `json:"datesFound,omitempty"`
	AccountNumbers []string `json:"accountNumbers,omitempty"`
}

// Document is the persisted record for an uploaded file and the pipeline
// output for it. The core pipeline mutates DocumentType, ExtractedFields,
// Financial, Confidence, ExtractionMethod and ProcessingStatus; deletion
// is an API concern outside the core.
type Document struct {
	DocumentID       string            `json:"documentID"` // Primary Key (UUID)
	OriginalName     string            `json:"originalName"`
	StoredName       string            `json:"storedName"`
	FilePath         string            `json:"filePath"`
	Source           string            `json:"source"`      // e.g. upload, folder-sync
	ContentHash      string            `json:"contentHash"` // SHA-256 of raw bytes; idempotency key
	SizeBytes        int64             `json:"sizeBytes"`
	DocumentType     DocumentType      `json:"documentType"`
	ExtractedFields  map[string]string `json:"extractedFields,omitempty"`
	Financial        FinancialSummary  `json:"financial"`
	Confidence       float64           `json:"confidence"` // 0-100, from extraction
	ExtractionMethod ExtractionMethod  `json:"extractionMethod"`
	ProcessingStatus ProcessingStatus  `json:"processingStatus"`
	ProcessedAt      *time.Time        `json:"processedAt,omitempty"`
	AuditFields
}
