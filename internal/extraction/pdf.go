package extraction

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// extractPDF tries the text layer first and falls back to rasterizing
// each page and running OCR over the page images.
func (e *Extractor) extractPDF(path string) domain.ExtractionResult {
	text, err := extractPDFTextLayer(path)
	if err == nil && strings.TrimSpace(text) != "" {
		return domain.ExtractionResult{
			Text:       text,
			Confidence: 95,
			Method:     domain.MethodPDFDirect,
		}
	}

	// No usable text layer — scanned or image-based PDF.
	return e.extractPDFViaOCR(path)
}

// extractPDFTextLayer pulls the embedded text layer page by page.
func extractPDFTextLayer(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue // a single unreadable page should not sink the document
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// extractPDFViaOCR converts PDF pages to PNG images with pdftoppm and
// OCRs each page, concatenating per-page text with page markers. The
// overall confidence is the mean of the per-page OCR confidences.
func (e *Extractor) extractPDFViaOCR(path string) domain.ExtractionResult {
	if _, err := exec.LookPath(e.PdftoppmCmd); err != nil {
		return failureResult("PDF Processing Error", fmt.Errorf("pdftoppm not available (install poppler-utils): %v", err))
	}
	if _, err := exec.LookPath(e.TesseractCmd); err != nil {
		return failureResult("PDF Processing Error", fmt.Errorf("tesseract not available (install tesseract-ocr): %v", err))
	}

	tmpDir, err := os.MkdirTemp("", "ocr-pages-*")
	if err != nil {
		return failureResult("PDF Processing Error", fmt.Errorf("failed to create temp dir: %v", err))
	}
	defer os.RemoveAll(tmpDir)

	// -r 300 = 300 DPI for good OCR quality
	imgPrefix := filepath.Join(tmpDir, "page")
	cmd := exec.Command(e.PdftoppmCmd, "-r", "300", "-png", path, imgPrefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return failureResult("PDF Processing Error", fmt.Errorf("pdftoppm failed: %v (output: %s)", err, string(out)))
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return failureResult("PDF Processing Error", fmt.Errorf("failed to read temp dir: %v", err))
	}
	var imageFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".png") {
			imageFiles = append(imageFiles, filepath.Join(tmpDir, entry.Name()))
		}
	}
	sort.Strings(imageFiles)
	if len(imageFiles) == 0 {
		return failureResult("PDF Processing Error", fmt.Errorf("pdftoppm produced no page images"))
	}

	var pages []string
	var confidenceSum float64
	for i, imgFile := range imageFiles {
		pageText, pageConf, err := e.ocrImageFile(imgFile)
		if err != nil {
			// Some pages might still work; count the failed page at zero.
			pageText = fmt.Sprintf("[OCR Error: %v]", err)
			pageConf = 0
		}
		pages = append(pages, fmt.Sprintf("--- Page %d ---\n%s", i+1, pageText))
		confidenceSum += pageConf
	}

	return domain.ExtractionResult{
		Text:       strings.Join(pages, "\n\n"),
		Confidence: confidenceSum / float64(len(imageFiles)),
		Method:     domain.MethodPDFOCR,
	}
}
