package extraction

import (
	"regexp"
	"strings"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// Field patterns are compiled once. Matching is case-insensitive, first
// match wins, and a missing field is simply omitted from the result —
// extraction is best-effort by design.
var (
	// Only "invoice" markers qualify: a bare "bill" alternative would
	// capture the addressee from a "Bill To:" line.
	invoiceNumberRe = regexp.MustCompile(`(?i)invoice\s*#?:?\s*([A-Z0-9-]+)`)
	vendorNameRe    = regexp.MustCompile(`(?i)from:?\s*\n?([^\n]+)`)
	dueDateRe       = regexp.MustCompile(`(?i)due\s+date:?\s*([^\n]+)`)
	totalAmountRe   = regexp.MustCompile(`(?i)total:?\s*\$?([\d,]+\.?\d*)`)

	balanceRe       = regexp.MustCompile(`(?i)balance:?\s*\$?([\d,]+\.?\d*)`)
	accountNumberRe = regexp.MustCompile(`(?i)account\s*#?:?\s*([X*\d-]+)`)

	checkNumberRe = regexp.MustCompile(`(?i)check\s*#?:?\s*(\d+)`)
	payToRe       = regexp.MustCompile(`(?i)pay\s+to:?\s*([^\n]+)`)
	amountRe      = regexp.MustCompile(`(?i)amount:?\s*\$?([\d,]+\.?\d*)`)

	locationRe = regexp.MustCompile(`(?i)location:?\s*([^\n]+)`)
)

// ExtractFields applies the extraction rules for the given document type
// and returns a flat mapping of named fields.
func ExtractFields(text string, docType domain.DocumentType) map[string]string {
	fields := map[string]string{}

	switch docType {
	case domain.DocTypeInvoice:
		setMatch(fields, "invoice_number", invoiceNumberRe, text, false)
		setMatch(fields, "vendor_name", vendorNameRe, text, true)
		setMatch(fields, "due_date", dueDateRe, text, true)
		setMatch(fields, "total_amount", totalAmountRe, text, false)
	case domain.DocTypeBankStatement:
		setMatch(fields, "balance", balanceRe, text, false)
		setMatch(fields, "account_number", accountNumberRe, text, false)
	case domain.DocTypeCheck:
		setMatch(fields, "check_number", checkNumberRe, text, false)
		setMatch(fields, "pay_to", payToRe, text, true)
		setMatch(fields, "amount", amountRe, text, false)
	case domain.DocTypeSalesReport:
		setMatch(fields, "location", locationRe, text, true)
		setMatch(fields, "total_sales", totalAmountRe, text, false)
	case domain.DocTypeReceipt:
		extractReceiptFields(fields, text)
	}

	return fields
}

func extractReceiptFields(fields map[string]string, text string) {
	// Merchant name is conventionally the first line of the receipt.
	if lines := strings.Split(text, "\n"); len(lines) > 0 {
		if merchant := strings.TrimSpace(lines[0]); merchant != "" {
			fields["merchant_name"] = merchant
		}
	}

	setMatch(fields, "total_amount", totalAmountRe, text, false)

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "cash"):
		fields["payment_method"] = "Cash"
	case strings.Contains(lower, "credit"):
		fields["payment_method"] = "Credit Card"
	case strings.Contains(lower, "debit"):
		fields["payment_method"] = "Debit Card"
	}
}

// setMatch stores the first capture group of re against key; trim
// controls whether surrounding whitespace is stripped from the capture.
func setMatch(fields map[string]string, key string, re *regexp.Regexp, text string, trim bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return
	}
	value := m[1]
	if trim {
		value = strings.TrimSpace(value)
	}
	if value != "" {
		fields[key] = value
	}
}
