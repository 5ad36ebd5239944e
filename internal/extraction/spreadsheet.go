package extraction

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// extractSpreadsheet flattens workbook cells into tab-separated text so
// the classifier and field extractor can treat it like any other
// document. Structured parsing of transactions out of a workbook is the
// tabular ingester's job, not the extractor's.
func (e *Extractor) extractSpreadsheet(path string) domain.ExtractionResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return failureResult("Spreadsheet Read Error", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			sb.WriteString(strings.Join(row, "\t"))
			sb.WriteString("\n")
		}
	}

	return domain.ExtractionResult{
		Text:       sb.String(),
		Confidence: 100,
		Method:     domain.MethodStructuredParse,
	}
}
