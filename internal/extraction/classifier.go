package extraction

import (
	"strings"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// classRule couples a document type with its indicator keywords.
type classRule struct {
	docType  domain.DocumentType
	keywords []string
}

// classRules are checked in this fixed order; the first class with at
// least two keyword hits wins, even if a later class would score higher.
// The order is part of the contract.
var classRules = []classRule{
	{domain.DocTypeInvoice, []string{"invoice", "bill to", "due date", "subtotal", "tax", "total amount"}},
	{domain.DocTypeBankStatement, []string{"bank statement", "balance", "deposit", "debit", "credit", "account"}},
	{domain.DocTypeCheck, []string{"check", "pay to", "dollars", "routing number"}},
	{domain.DocTypeSalesReport, []string{"sales report", "daily sales", "units", "payment methods"}},
	{domain.DocTypeReceipt, []string{"receipt", "total", "cash", "credit card", "thank you"}},
}

const classifyThreshold = 2

// Classify scores extracted text against the keyword sets and returns
// the best document type, general_document when nothing reaches the
// threshold, or unknown for empty/failed extractions.
func Classify(text string) domain.DocumentType {
	if text == "" || strings.HasPrefix(text, FailureSentinel) {
		return domain.DocTypeUnknown
	}

	lower := strings.ToLower(text)
	for _, rule := range classRules {
		hits := 0
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits >= classifyThreshold {
			return rule.docType
		}
	}

	return domain.DocTypeGeneral
}
