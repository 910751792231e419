package analytics

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// TopN is how many groups the ranked result sets keep.
const TopN = 10

// DailyTotal is the summed TotalSales of one calendar day.
type DailyTotal struct {
	Date       civil.Date      `json:"date"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// GroupTotal is the summed TotalSales of one group key.
type GroupTotal struct {
	Key        string          `json:"key"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// Result holds the four result sets behind the dashboard charts.
type Result struct {
	TimeSeries   []DailyTotal `json:"time_series"`
	TopProducts  []GroupTotal `json:"top_products"`
	CountrySales []GroupTotal `json:"country_sales"`
	TopCustomers []GroupTotal `json:"top_customers"`
}

// Rows is anything that can enumerate transactions. *dataset.Table and Subset
// both satisfy it.
type Rows interface {
	Each(fn func(domain.Transaction))
}

// Subset is a filtered slice of transactions.
type Subset []domain.Transaction

// Each calls fn for every transaction in order.
func (s Subset) Each(fn func(domain.Transaction)) {
	for _, tx := range s {
		fn(tx)
	}
}

// Aggregate computes every result set for the range [start, end].
// Country sales ignore the range and always cover the full table.
// An inverted range yields empty date-filtered sets.
func Aggregate(table Rows, start, end time.Time) Result {
	filtered := Filter(table, domain.DateRange{Start: start, End: end})

	return Result{
		TimeSeries:   TimeSeries(filtered),
		TopProducts:  TopProducts(filtered, TopN),
		CountrySales: CountrySales(table),
		TopCustomers: TopCustomers(filtered, TopN),
	}
}

// Filter keeps rows with Start ≤ InvoiceDate ≤ End.
func Filter(rows Rows, r domain.DateRange) Subset {
	out := Subset{}
	if !r.Valid() {
		return out
	}
	rows.Each(func(tx domain.Transaction) {
		if r.Contains(tx.InvoiceDate) {
			out = append(out, tx)
		}
	})
	return out
}

// TimeSeries sums TotalSales per calendar date, oldest first.
func TimeSeries(rows Rows) []DailyTotal {
	sums := make(map[civil.Date]decimal.Decimal)
	rows.Each(func(tx domain.Transaction) {
		day := civil.DateOf(tx.InvoiceDate)
		sums[day] = sums[day].Add(tx.TotalSales)
	})

	out := make([]DailyTotal, 0, len(sums))
	for day, total := range sums {
		out = append(out, DailyTotal{Date: day, TotalSales: total})
	}
	sortDaily(out)
	return out
}

// TopProducts returns the n products with the largest summed sales.
// Rows without a description are not grouped.
func TopProducts(rows Rows, n int) []GroupTotal {
	groups := groupSum(rows, func(tx domain.Transaction) (string, bool) {
		return tx.Description, tx.Description != ""
	})
	return largest(groups, n)
}

// CountrySales sums sales per country, ordered by country name.
// Rows without a country are not grouped.
func CountrySales(rows Rows) []GroupTotal {
	return groupSum(rows, func(tx domain.Transaction) (string, bool) {
		return tx.Country, tx.Country != ""
	})
}

// TopCustomers returns the n customers with the largest summed sales, keyed
// by display id. Missing ids are grouped under MissingCustomerLabel.
func TopCustomers(rows Rows, n int) []GroupTotal {
	groups := groupSum(rows, func(tx domain.Transaction) (string, bool) {
		return tx.CustomerID.Display(), true
	})
	return largest(groups, n)
}

// Total sums TotalSales over rows.
func Total(rows Rows) decimal.Decimal {
	total := decimal.Zero
	rows.Each(func(tx domain.Transaction) {
		total = total.Add(tx.TotalSales)
	})
	return total
}
