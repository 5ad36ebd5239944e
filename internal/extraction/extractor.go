package extraction

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// FailureSentinel prefixes the text payload of every failed extraction.
// The classifier treats any text starting with this as unreadable.
const FailureSentinel = "["

var (
	imageExtensions = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".tiff": true, ".tif": true,
	}
	textExtensions        = map[string]bool{".txt": true, ".csv": true, ".json": true}
	spreadsheetExtensions = map[string]bool{".xlsx": true}
)

// Extractor produces text from document files, dispatching by extension.
// It never returns a Go error for a per-document failure: failures are
// encoded in the result as a zero-confidence bracketed diagnostic.
type Extractor struct {
	TesseractCmd string // tesseract binary, defaults to "tesseract"
	PdftoppmCmd  string // pdftoppm binary (poppler-utils), defaults to "pdftoppm"
}

// NewExtractor returns an Extractor using the default external tool names.
func NewExtractor() *Extractor {
	return &Extractor{TesseractCmd: "tesseract", PdftoppmCmd: "pdftoppm"}
}

// Extract reads the file at path and returns its text, a 0-100 confidence
// score and the method that produced it.
func (e *Extractor) Extract(path string) domain.ExtractionResult {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case textExtensions[ext]:
		return e.extractTextFile(path)
	case spreadsheetExtensions[ext]:
		return e.extractSpreadsheet(path)
	case ext == ".pdf":
		return e.extractPDF(path)
	case imageExtensions[ext]:
		return e.extractImage(path)
	default:
		return domain.ExtractionResult{
			Text:       fmt.Sprintf("[Unsupported file type: %s]", ext),
			Confidence: 0,
			Method:     domain.MethodUnsupported,
		}
	}
}

// extractTextFile reads plain text, CSV and JSON files verbatim.
// Confidence is fixed at 100: the bytes are the document.
func (e *Extractor) extractTextFile(path string) domain.ExtractionResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return failureResult("Text Read Error", err)
	}
	if !utf8.Valid(data) {
		return failureResult("Text Read Error", fmt.Errorf("file %s is not valid UTF-8", filepath.Base(path)))
	}
	return domain.ExtractionResult{
		Text:       string(data),
		Confidence: 100,
		Method:     domain.MethodDirectRead,
	}
}

// failureResult encodes an extraction failure as a result instead of an
// error, using the bracketed sentinel convention.
func failureResult(kind string, err error) domain.ExtractionResult {
	return domain.ExtractionResult{
		Text:       fmt.Sprintf("[%s: %v]", kind, err),
		Confidence: 0,
		Method:     domain.MethodError,
	}
}
