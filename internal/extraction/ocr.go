package extraction

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// extractImage OCRs a scanned image after preprocessing it for better
// recognition. Confidence is the mean of the per-token OCR confidences.
func (e *Extractor) extractImage(path string) domain.ExtractionResult {
	if _, err := exec.LookPath(e.TesseractCmd); err != nil {
		return failureResult("OCR Error", fmt.Errorf("tesseract not available (install tesseract-ocr): %v", err))
	}

	text, confidence, err := e.ocrImageFile(path)
	if err != nil {
		return failureResult("OCR Error", err)
	}

	return domain.ExtractionResult{
		Text:       strings.TrimSpace(text),
		Confidence: confidence,
		Method:     domain.MethodOCR,
	}
}

// ocrImageFile preprocesses one image and runs Tesseract over it in TSV
// mode, returning the recognized text and the mean per-token confidence.
// Tokens Tesseract reports with confidence <= 0 are excluded from the
// average (they are layout artifacts, not words).
func (e *Extractor) ocrImageFile(path string) (string, float64, error) {
	processed, err := preprocessImage(path)
	if err != nil {
		return "", 0, err
	}
	defer os.Remove(processed)

	// tsv output carries one row per token with its confidence, which is
	// what we need to score the extraction.
	cmd := exec.Command(e.TesseractCmd, processed, "stdout", "-l", "eng", "--psm", "4", "tsv")
	out, err := cmd.Output()
	if err != nil {
		return "", 0, fmt.Errorf("tesseract failed for %s: %v", filepath.Base(path), err)
	}

	return parseTesseractTSV(string(out))
}

// preprocessImage applies the OCR preprocessing chain: grayscale,
// contrast boost, sharpening, then a light blur to denoise. Returns the
// path of a temporary PNG holding the processed image.
func preprocessImage(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}

	img = imaging.Grayscale(img)
	img = imaging.AdjustContrast(img, 100) // x2.0 contrast
	img = imaging.Sharpen(img, 1.5)
	img = imaging.Blur(img, 0.5)

	tmp, err := os.CreateTemp("", "ocr-pre-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := imaging.Save(img, tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to save preprocessed image: %w", err)
	}
	return tmpPath, nil
}

// parseTesseractTSV rebuilds line-structured text from Tesseract's TSV
// output and averages the word-level confidences.
func parseTesseractTSV(tsv string) (string, float64, error) {
	lines := strings.Split(tsv, "\n")
	if len(lines) < 2 {
		return "", 0, fmt.Errorf("tesseract produced no TSV output")
	}

	var sb strings.Builder
	var confidenceSum float64
	var tokenCount int
	lastLineKey := ""

	for _, row := range lines[1:] { // skip header
		fields := strings.Split(row, "\t")
		if len(fields) < 12 {
			continue
		}
		word := strings.TrimSpace(fields[11])
		if word == "" {
			continue
		}
		conf, err := strconv.ParseFloat(fields[10], 64)
		if err != nil {
			continue
		}

		// block/paragraph/line triple identifies the text line.
		lineKey := fields[2] + "/" + fields[3] + "/" + fields[4]
		if lastLineKey != "" && lineKey != lastLineKey {
			sb.WriteString("\n")
		} else if lastLineKey != "" {
			sb.WriteString(" ")
		}
		lastLineKey = lineKey
		sb.WriteString(word)

		if conf > 0 {
			confidenceSum += conf
			tokenCount++
		}
	}

	avg := 0.0
	if tokenCount > 0 {
		avg = confidenceSum / float64(tokenCount)
	}
	return sb.String(), avg, nil
}
