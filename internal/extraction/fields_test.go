package extraction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
	"github.com/vendorpay/vendorpay_backend/internal/extraction"
)

func TestExtractFieldsInvoice(t *testing.T) {
	fields := extraction.ExtractFields(invoiceText, domain.DocTypeInvoice)

	assert.Equal(t, "INV-2024-001", fields["invoice_number"])
	assert.Equal(t, "Acme Office Supplies", fields["vendor_name"])
	assert.Equal(t, "February 14, 2024", fields["due_date"])
	assert.Equal(t, "1,014.69", fields["total_amount"])
}

func TestExtractFieldsBankStatement(t *testing.T) {
	text := "BANK STATEMENT\nAccount #: ****-4567\nEnding Balance: $5,432.10"
	fields := extraction.ExtractFields(text, domain.DocTypeBankStatement)

	assert.Equal(t, "5,432.10", fields["balance"])
	assert.Equal(t, "****-4567", fields["account_number"])
}

func TestExtractFieldsCheck(t *testing.T) {
	text := "Check #: 1042\nPay to: Acme Supplies\nAmount: $750.00"
	fields := extraction.ExtractFields(text, domain.DocTypeCheck)

	assert.Equal(t, "1042", fields["check_number"])
	assert.Equal(t, "Acme Supplies", fields["pay_to"])
	assert.Equal(t, "750.00", fields["amount"])
}

func TestExtractFieldsReceipt(t *testing.T) {
	text := "Corner Market\nReceipt\nTotal: $14.25\nPaid with credit card\nThank you"
	fields := extraction.ExtractFields(text, domain.DocTypeReceipt)

	assert.Equal(t, "Corner Market", fields["merchant_name"])
	assert.Equal(t, "14.25", fields["total_amount"])
	assert.Equal(t, "Credit Card", fields["payment_method"])
}

func TestExtractFieldsInvoiceNumberIgnoresBillTo(t *testing.T) {
	// A "Bill To:" addressee line must never be mistaken for the
	// invoice number, wherever it sits relative to the real marker.
	text := "Bill To: Contoso Ltd\n123 Main Street\nInvoice #: INV-77\nTotal: $100.00"
	fields := extraction.ExtractFields(text, domain.DocTypeInvoice)
	assert.Equal(t, "INV-77", fields["invoice_number"])

	withoutNumber := extraction.ExtractFields("Bill To: Contoso Ltd\nTotal: $100.00", domain.DocTypeInvoice)
	assert.NotContains(t, withoutNumber, "invoice_number")
}

func TestExtractFieldsMissingFieldsAreOmitted(t *testing.T) {
	fields := extraction.ExtractFields("no recognizable markers here", domain.DocTypeInvoice)
	assert.NotContains(t, fields, "invoice_number")
	assert.NotContains(t, fields, "total_amount")
}

func TestExtractFieldsUnknownTypeIsEmpty(t *testing.T) {
	fields := extraction.ExtractFields(invoiceText, domain.DocTypeUnknown)
	assert.Empty(t, fields)
}

func TestExtractFinancialSummary(t *testing.T) {
	summary := extraction.ExtractFinancialSummary(invoiceText)

	assert.Equal(t, []string{"$937.50", "$77.19", "$1,014.69"}, summary.AmountsFound)
	assert.Equal(t, "$1,014.69", summary.MainTotal)
	assert.Contains(t, summary.DatesFound, "February 14, 2024")
}

func TestExtractFinancialSummaryMainTotalPicksLastNearTotal(t *testing.T) {
	text := "Subtotal: $100.00\nShipping: $5.00\nGrand Total: $105.00"
	summary := extraction.ExtractFinancialSummary(text)
	assert.Equal(t, "$105.00", summary.MainTotal)
}

func TestExtractFinancialSummaryMaskedAccounts(t *testing.T) {
	text := "Account ****-4567 and card ****1234 were charged."
	summary := extraction.ExtractFinancialSummary(text)
	assert.Equal(t, []string{"****-4567", "****1234"}, summary.AccountNumbers)
}

func TestExtractFinancialSummaryFailureTextIsEmpty(t *testing.T) {
	summary := extraction.ExtractFinancialSummary("[OCR Error: tesseract not found]")
	assert.Empty(t, summary.AmountsFound)
	assert.Empty(t, summary.MainTotal)
	assert.Empty(t, summary.DatesFound)
	assert.Empty(t, summary.AccountNumbers)
}
