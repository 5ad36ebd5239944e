package extraction

import (
	"regexp"
	"strings"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

var (
	currencyAmountRe = regexp.MustCompile(`\$[\d,]+\.?\d*`)
	dateRe           = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\w+ \d{1,2}, \d{4}\b`)
	maskedAccountRe  = regexp.MustCompile(`\*+-?\d{4}`)
)

// totalWindow is the number of characters around an amount that are
// scanned for the word "total" when picking the main total.
const totalWindow = 20

// ExtractFinancialSummary pulls the type-independent financial data out
// of any document text: currency amounts, the main total, dates and
// masked account numbers. Failed extractions yield an empty summary.
func ExtractFinancialSummary(text string) domain.FinancialSummary {
	summary := domain.FinancialSummary{}
	if text == "" || strings.HasPrefix(text, FailureSentinel) {
		return summary
	}

	summary.AmountsFound = currencyAmountRe.FindAllString(text, -1)
	summary.MainTotal = findMainTotal(text, summary.AmountsFound)
	summary.DatesFound = dateRe.FindAllString(text, -1)
	summary.AccountNumbers = maskedAccountRe.FindAllString(text, -1)

	return summary
}

// findMainTotal returns the last amount that appears near the word
// "total". Amounts are scanned in reverse because totals are typically
// printed at the end of a document.
func findMainTotal(text string, amounts []string) string {
	lower := strings.ToLower(text)
	for i := len(amounts) - 1; i >= 0; i-- {
		idx := strings.Index(lower, strings.ToLower(amounts[i]))
		if idx < 0 {
			continue
		}
		start := idx - totalWindow
		if start < 0 {
			start = 0
		}
		end := idx + totalWindow
		if end > len(lower) {
			end = len(lower)
		}
		if strings.Contains(lower[start:end], "total") {
			return amounts[i]
		}
	}
	return ""
}
