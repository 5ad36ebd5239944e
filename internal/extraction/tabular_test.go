package extraction_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
	"github.com/vendorpay/vendorpay_backend/internal/extraction"
)

func TestParseStatementCSV(t *testing.T) {
	csvData := `Date,Description,Amount,Type
02/01/2024,ACME CORP PAYMENT,-1014.69,debit
02/03/2024,CUSTOMER DEPOSIT,2500.00,credit
02/05/2024,COFFEE SHOP,-4.50,
not-a-date,BROKEN ROW,10.00,debit
02/07/2024,BAD AMOUNT,abc,debit`

	parsed, err := extraction.ParseStatementCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	require.Len(t, parsed.Transactions, 3)
	assert.Equal(t, float64(90), parsed.Confidence)

	first := parsed.Transactions[0]
	assert.Equal(t, "ACME CORP PAYMENT", first.Description)
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("-1014.69")))
	assert.Equal(t, domain.Debit, first.TransactionType)
	assert.Equal(t, 2024, first.TransactionDate.Year())

	assert.Equal(t, domain.Credit, parsed.Transactions[1].TransactionType)

	// Missing type column value falls back to the amount's sign.
	assert.Equal(t, domain.Debit, parsed.Transactions[2].TransactionType)

	require.Len(t, parsed.Skipped, 2)
	assert.Equal(t, 5, parsed.Skipped[0].Row)
	assert.Contains(t, parsed.Skipped[0].Reason, "unparseable date")
	assert.Equal(t, 6, parsed.Skipped[1].Row)
	assert.Contains(t, parsed.Skipped[1].Reason, "unparseable amount")
}

func TestParseStatementCSVHeaderSynonyms(t *testing.T) {
	csvData := `posting_date,memo,transaction_amount
2024-02-01,VENDOR PAYMENT,-100.00`

	parsed, err := extraction.ParseStatementCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, parsed.Transactions, 1)
	assert.Equal(t, "VENDOR PAYMENT", parsed.Transactions[0].Description)
	assert.Equal(t, domain.Debit, parsed.Transactions[0].TransactionType)
}

func TestParseStatementCSVUnknownTypeIsSkipped(t *testing.T) {
	csvData := `Date,Description,Amount,Type
02/01/2024,SOMETHING,10.00,transfer`

	parsed, err := extraction.ParseStatementCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Empty(t, parsed.Transactions)
	require.Len(t, parsed.Skipped, 1)
	assert.Contains(t, parsed.Skipped[0].Reason, "unknown transaction type")
}

func TestParseStatementCSVEmptyInput(t *testing.T) {
	_, err := extraction.ParseStatementCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseSalesReportXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"sale_date", "sale_amount", "payment_method"},
		{"02/01/2024", "125.50", "Cash"},
		{"02/01/2024", "$1,250.00", "Credit"},
		{"bogus", "50.00", "Cash"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	parsed, err := extraction.ParseSalesReportXLSX(&buf)
	require.NoError(t, err)

	require.Len(t, parsed.Transactions, 2)
	assert.Equal(t, float64(95), parsed.Confidence)
	assert.True(t, parsed.TotalSales.Equal(decimal.RequireFromString("1375.50")))

	for _, txn := range parsed.Transactions {
		assert.Equal(t, domain.Incoming, txn.Type)
		assert.Equal(t, "sales_revenue", txn.Category)
		assert.Equal(t, domain.Unreconciled, txn.ReconciliationStatus)
	}
	assert.Equal(t, "cash sale", parsed.Transactions[0].Description)
	assert.Equal(t, "credit sale", parsed.Transactions[1].Description)

	require.Len(t, parsed.Skipped, 1)
	assert.Equal(t, 4, parsed.Skipped[0].Row)
}
