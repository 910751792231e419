package dataset

import (
	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// Table is the immutable in-memory snapshot of all transactions.
// It is built once at startup and shared by reference between request handlers;
// nothing in the package mutates it after NewTable returns.
type Table struct {
	rows   []domain.Transaction
	bounds domain.DateRange
}

// NewTable takes ownership of rows and records the observed InvoiceDate bounds.
func NewTable(rows []domain.Transaction) *Table {
	t := &Table{rows: rows}
	for i, r := range rows {
		if i == 0 || r.InvoiceDate.Before(t.bounds.Start) {
			t.bounds.Start = r.InvoiceDate
		}
		if i == 0 || r.InvoiceDate.After(t.bounds.End) {
			t.bounds.End = r.InvoiceDate
		}
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns row i by value.
func (t *Table) Row(i int) domain.Transaction { return t.rows[i] }

// Rows returns a copy of all rows.
func (t *Table) Rows() []domain.Transaction {
	out := make([]domain.Transaction, len(t.rows))
	copy(out, t.rows)
	return out
}

// Each calls fn for every row in load order without copying the slice.
func (t *Table) Each(fn func(domain.Transaction)) {
	for _, r := range t.rows {
		fn(r)
	}
}

// Bounds returns the min and max InvoiceDate. Empty tables yield a zero range.
func (t *Table) Bounds() domain.DateRange { return t.bounds }

// TotalSales sums TotalSales over every row.
func (t *Table) TotalSales() decimal.Decimal {
	total := decimal.Zero
	for _, r := range t.rows {
		total = total.Add(r.TotalSales)
	}
	return total
}
