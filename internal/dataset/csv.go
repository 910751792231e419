package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// Column names of the source CSV. Names and casing must match exactly.
const (
	ColInvoiceDate = "InvoiceDate"
	ColQuantity    = "Quantity"
	ColUnitPrice   = "UnitPrice"
	ColDescription = "Description"
	ColCustomerID  = "CustomerID"
	ColCountry     = "Country"
)

// RequiredColumns lists the columns every source must provide.
var RequiredColumns = []string{
	ColInvoiceDate,
	ColQuantity,
	ColUnitPrice,
	ColDescription,
	ColCustomerID,
	ColCountry,
}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// invoiceDateLayouts are tried in order. Single-digit layout fields also accept
// two digits when parsing, so "1/2/2006" covers "12/01/2010" too.
var invoiceDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

// ParseCSV reads a transactions CSV and returns the derived table.
// Any row that cannot be parsed aborts the load with the offending line number.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []domain.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		tx, err := parseRecord(record, idx)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, tx)
	}

	return NewTable(rows), nil
}

// columnIndex maps each required column to its position in the header.
func columnIndex(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		positions[strings.TrimSpace(h)] = i
	}

	idx := make(map[string]int, len(RequiredColumns))
	for _, col := range RequiredColumns {
		pos, ok := positions[col]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
		idx[col] = pos
	}
	return idx, nil
}

// parseRecord trims the parsed columns only. Description and Country are
// group keys and are kept byte for byte.
func parseRecord(record []string, idx map[string]int) (domain.Transaction, error) {
	raw := func(col string) string {
		return record[idx[col]]
	}
	field := func(col string) string {
		return strings.TrimSpace(raw(col))
	}

	invoiceDate, err := ParseInvoiceDate(field(ColInvoiceDate))
	if err != nil {
		return domain.Transaction{}, err
	}

	quantity, err := parseQuantity(field(ColQuantity))
	if err != nil {
		return domain.Transaction{}, err
	}

	unitPrice, err := decimal.NewFromString(field(ColUnitPrice))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%s %q: %w", ColUnitPrice, field(ColUnitPrice), err)
	}

	return domain.NewTransaction(
		invoiceDate,
		raw(ColDescription),
		domain.ParseCustomerID(field(ColCustomerID)),
		raw(ColCountry),
		quantity,
		unitPrice,
	), nil
}

// ParseInvoiceDate parses the formats seen in retail exports. Values without a
// zone are taken as UTC.
func ParseInvoiceDate(raw string) (time.Time, error) {
	for _, layout := range invoiceDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%s %q: unrecognised date format", ColInvoiceDate, raw)
}

// parseQuantity accepts integers and integral floats ("6.0").
func parseQuantity(raw string) (int64, error) {
	if q, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return q, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("%s %q: not an integer", ColQuantity, raw)
	}
	return int64(f), nil
}
