package extraction

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vendorpay/vendorpay_backend/internal/core/domain"
)

// RowError records why one row of a tabular document was skipped during
// bulk parsing. Rows are 1-based as the user sees them in the file.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ParsedStatement is the output of parsing a tabular bank statement:
// the rows that parsed, the rows that did not and why, and an overall
// parse confidence.
type ParsedStatement struct {
	Transactions []domain.StatementTransaction
	Skipped      []RowError
	Confidence   float64 // 0-100
}

// ParsedSalesReport is the output of parsing a tabular sales report.
type ParsedSalesReport struct {
	Transactions []domain.BusinessTransaction // all Incoming
	TotalSales   decimal.Decimal
	Skipped      []RowError
	Confidence   float64 // 0-100
}

// Header synonyms seen across bank and POS exports.
var (
	dateColumns        = []string{"date", "transaction_date", "posting_date", "sale_date"}
	descriptionColumns = []string{"description", "memo", "payee"}
	amountColumns      = []string{"amount", "transaction_amount", "total", "sale_amount"}
	typeColumns        = []string{"type", "transaction_type", "debit_credit"}
	paymentColumns     = []string{"payment_method", "payment_type", "tender_type"}
)

var statementDateFormats = []string{
	"01/02/2006", "01-02-2006", "2006-01-02", "1/2/2006", "1-2-2006", "01/02/06", "1/2/06",
}

// ParseStatementCSV parses a CSV bank/card statement into statement
// transactions. Malformed rows are skipped with a recorded reason; the
// returned error covers only an unreadable stream or missing header.
func ParseStatementCSV(r io.Reader) (ParsedStatement, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // exports are ragged more often than not

	records, err := reader.ReadAll()
	if err != nil {
		return ParsedStatement{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 1 {
		return ParsedStatement{}, fmt.Errorf("CSV has no header row")
	}

	header := records[0]
	dateCol := findColumn(header, dateColumns, 0)
	descCol := findColumn(header, descriptionColumns, 1)
	amountCol := findColumn(header, amountColumns, 2)
	typeCol := findColumn(header, typeColumns, -1)
	if dateCol < 0 || descCol < 0 || amountCol < 0 {
		return ParsedStatement{}, fmt.Errorf("CSV header is missing date, description or amount columns")
	}

	result := ParsedStatement{Confidence: 90} // structured data, no OCR involved
	for i, row := range records[1:] {
		rowNum := i + 2 // 1-based, after header
		txn, reason := parseStatementRow(row, dateCol, descCol, amountCol, typeCol)
		if reason != "" {
			result.Skipped = append(result.Skipped, RowError{Row: rowNum, Reason: reason})
			continue
		}
		result.Transactions = append(result.Transactions, txn)
	}
	return result, nil
}

func parseStatementRow(row []string, dateCol, descCol, amountCol, typeCol int) (domain.StatementTransaction, string) {
	if dateCol >= len(row) || descCol >= len(row) || amountCol >= len(row) {
		return domain.StatementTransaction{}, "row has fewer columns than the header"
	}

	date, err := parseFlexibleDate(row[dateCol])
	if err != nil {
		return domain.StatementTransaction{}, fmt.Sprintf("unparseable date %q", row[dateCol])
	}

	amount, err := parseAmountString(row[amountCol])
	if err != nil {
		return domain.StatementTransaction{}, fmt.Sprintf("unparseable amount %q", row[amountCol])
	}

	txn := domain.StatementTransaction{
		TransactionDate: date,
		Description:     strings.TrimSpace(row[descCol]),
		Amount:          amount,
	}

	// Explicit type column wins; otherwise the sign decides.
	if typeCol >= 0 && typeCol < len(row) && strings.TrimSpace(row[typeCol]) != "" {
		switch strings.ToLower(strings.TrimSpace(row[typeCol])) {
		case "debit", "dr":
			txn.TransactionType = domain.Debit
		case "credit", "cr":
			txn.TransactionType = domain.Credit
		default:
			return domain.StatementTransaction{}, fmt.Sprintf("unknown transaction type %q", row[typeCol])
		}
	} else if amount.IsNegative() {
		txn.TransactionType = domain.Debit
	} else {
		txn.TransactionType = domain.Credit
	}

	return txn, ""
}

// ParseSalesReportXLSX parses a POS sales report workbook into incoming
// business transactions, one per sale row on the first sheet.
func ParseSalesReportXLSX(r io.Reader) (ParsedSalesReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ParsedSalesReport{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ParsedSalesReport{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ParsedSalesReport{}, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 1 {
		return ParsedSalesReport{}, fmt.Errorf("sheet %s has no header row", sheets[0])
	}

	header := rows[0]
	dateCol := findColumn(header, dateColumns, 0)
	amountCol := findColumn(header, amountColumns, 1)
	paymentCol := findColumn(header, paymentColumns, -1)
	if dateCol < 0 || amountCol < 0 {
		return ParsedSalesReport{}, fmt.Errorf("sheet %s is missing date or amount columns", sheets[0])
	}

	result := ParsedSalesReport{Confidence: 95, TotalSales: decimal.Zero}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if dateCol >= len(row) || amountCol >= len(row) {
			result.Skipped = append(result.Skipped, RowError{Row: rowNum, Reason: "row has fewer columns than the header"})
			continue
		}
		date, err := parseFlexibleDate(row[dateCol])
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Row: rowNum, Reason: fmt.Sprintf("unparseable date %q", row[dateCol])})
			continue
		}
		amount, err := parseAmountString(row[amountCol])
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Row: rowNum, Reason: fmt.Sprintf("unparseable amount %q", row[amountCol])})
			continue
		}

		txn := domain.BusinessTransaction{
			Type:                 domain.Incoming,
			TransactionDate:      date,
			Amount:               amount.Abs(),
			Category:             "sales_revenue",
			ReconciliationStatus: domain.Unreconciled,
		}
		if paymentCol >= 0 && paymentCol < len(row) {
			txn.Description = strings.ToLower(strings.TrimSpace(row[paymentCol])) + " sale"
		} else {
			txn.Description = "sale"
		}

		result.Transactions = append(result.Transactions, txn)
		result.TotalSales = result.TotalSales.Add(txn.Amount)
	}
	return result, nil
}

// findColumn maps one of the synonym names to a header index, falling
// back to a positional default (-1 disables the fallback).
func findColumn(header []string, synonyms []string, fallback int) int {
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		for _, syn := range synonyms {
			if name == syn {
				return i
			}
		}
	}
	if fallback >= 0 && fallback < len(header) {
		return fallback
	}
	return -1
}

func parseFlexibleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, format := range statementDateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

func parseAmountString(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(cleaned)
}
