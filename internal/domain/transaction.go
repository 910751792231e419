package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one sales line item of the source table.
// Values are produced by the dataset loader and never mutated afterwards;
// TotalSales is derived once as Quantity × UnitPrice.
type Transaction struct {
	InvoiceDate time.Time       // parsed from "InvoiceDate"
	Description string          // product name, from "Description"
	CustomerID  CustomerID      // from "CustomerID", may be missing
	Country     string          // from "Country"
	Quantity    int64           // from "Quantity"
	UnitPrice   decimal.Decimal // from "UnitPrice"
	TotalSales  decimal.Decimal // Quantity × UnitPrice
}

// NewTransaction builds a Transaction and derives TotalSales.
func NewTransaction(invoiceDate time.Time, description string, customer CustomerID, country string, quantity int64, unitPrice decimal.Decimal) Transaction {
	return Transaction{
		InvoiceDate: invoiceDate,
		Description: description,
		CustomerID:  customer,
		Country:     country,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalSales:  unitPrice.Mul(decimal.NewFromInt(quantity)),
	}
}

// MissingCustomerLabel is the display string used for rows without a customer id.
const MissingCustomerLabel = "nan"

// CustomerID is a nullable customer identifier.
type CustomerID struct {
	Value string
	Valid bool
}

// ParseCustomerID reads a raw CSV cell. Blank cells and NaN markers are treated as missing.
func ParseCustomerID(raw string) CustomerID {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "nan", "null", "none":
		return CustomerID{}
	}
	return CustomerID{Value: raw, Valid: true}
}

// Display returns the id as shown on the customer chart.
// Integral float text ("17850.0") is shown without the fraction.
func (c CustomerID) Display() string {
	if !c.Valid {
		return MissingCustomerLabel
	}
	if f, err := strconv.ParseFloat(c.Value, 64); err == nil && f == float64(int64(f)) && strings.Contains(c.Value, ".") {
		return strconv.FormatInt(int64(f), 10)
	}
	return c.Value
}
