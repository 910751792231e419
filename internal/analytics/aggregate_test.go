package analytics

import (
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/sales-dashboard/internal/dataset"
	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(at time.Time, product, customer, country string, qty int64, price string) domain.Transaction {
	return domain.NewTransaction(at, product, domain.ParseCustomerID(customer), country, qty, decimal.RequireFromString(price))
}

func scenarioTable() *dataset.Table {
	return dataset.NewTable([]domain.Transaction{
		tx(day(2021, 1, 1), "A", "1", "US", 2, "5"),
		tx(day(2021, 1, 5), "B", "2", "UK", 1, "10"),
	})
}

// sampleTable has 15 products, 12 customers, a missing customer id and
// several rows per day.
func sampleTable() *dataset.Table {
	var rows []domain.Transaction
	for i := 0; i < 30; i++ {
		at := day(2011, 3, 1+i%10).Add(time.Duration(i) * time.Hour)
		product := fmt.Sprintf("PRODUCT %02d", i%15)
		customer := fmt.Sprintf("%d.0", 12000+i%12)
		if i%7 == 0 {
			customer = ""
		}
		country := []string{"United Kingdom", "France", "Germany"}[i%3]
		rows = append(rows, tx(at, product, customer, country, int64(1+i%4), fmt.Sprintf("%d.25", i%9)))
	}
	return dataset.NewTable(rows)
}

func assertEqualDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestAggregateScenario(t *testing.T) {
	res := Aggregate(scenarioTable(), day(2021, 1, 1), day(2021, 1, 3))

	require.Len(t, res.TimeSeries, 1)
	assert.Equal(t, civil.Date{Year: 2021, Month: time.January, Day: 1}, res.TimeSeries[0].Date)
	assertEqualDecimal(t, "10", res.TimeSeries[0].TotalSales)

	require.Len(t, res.TopProducts, 1)
	assert.Equal(t, "A", res.TopProducts[0].Key)
	assertEqualDecimal(t, "10", res.TopProducts[0].TotalSales)

	require.Len(t, res.TopCustomers, 1)
	assert.Equal(t, "1", res.TopCustomers[0].Key)
	assertEqualDecimal(t, "10", res.TopCustomers[0].TotalSales)

	require.Len(t, res.CountrySales, 2)
	assert.ElementsMatch(t, []string{"US", "UK"}, []string{res.CountrySales[0].Key, res.CountrySales[1].Key})
	for _, c := range res.CountrySales {
		assertEqualDecimal(t, "10", c.TotalSales)
	}
}

func TestAggregateInvertedRange(t *testing.T) {
	table := sampleTable()
	res := Aggregate(table, day(2011, 3, 9), day(2011, 3, 2))

	assert.Empty(t, res.TimeSeries)
	assert.Empty(t, res.TopProducts)
	assert.Empty(t, res.TopCustomers)
	assert.NotEmpty(t, res.CountrySales, "country sales ignore the date range")
}

func TestAggregateRangeOutsideData(t *testing.T) {
	res := Aggregate(sampleTable(), day(2020, 1, 1), day(2020, 12, 31))

	assert.NotNil(t, res.TimeSeries)
	assert.Empty(t, res.TimeSeries)
	assert.Empty(t, res.TopProducts)
	assert.Empty(t, res.TopCustomers)
}

func TestTimeSeriesTotalsMatchFilteredRows(t *testing.T) {
	table := sampleTable()
	ranges := []domain.DateRange{
		{Start: day(2011, 3, 1), End: day(2011, 3, 10)},
		{Start: day(2011, 3, 3).Add(5 * time.Hour), End: day(2011, 3, 6).Add(2 * time.Hour)},
		{Start: day(2011, 3, 4), End: day(2011, 3, 4)},
		{Start: day(2000, 1, 1), End: day(2030, 1, 1)},
	}

	for _, r := range ranges {
		t.Run(r.Start.String(), func(t *testing.T) {
			res := Aggregate(table, r.Start, r.End)

			sum := decimal.Zero
			for _, d := range res.TimeSeries {
				sum = sum.Add(d.TotalSales)
			}

			want := decimal.Zero
			table.Each(func(tx domain.Transaction) {
				if !tx.InvoiceDate.Before(r.Start) && !tx.InvoiceDate.After(r.End) {
					want = want.Add(tx.TotalSales)
				}
			})

			assert.True(t, want.Equal(sum), "want %s, got %s", want, sum)
		})
	}
}

func TestTimeSeriesOrderedByDate(t *testing.T) {
	table := sampleTable()
	res := Aggregate(table, day(2011, 3, 1), day(2011, 4, 1))

	days := make(map[civil.Date]bool)
	table.Each(func(tx domain.Transaction) { days[civil.DateOf(tx.InvoiceDate)] = true })
	require.Len(t, days, 11, "the last sample row spills into 2011-03-11")
	require.Len(t, res.TimeSeries, len(days))
	for i := 1; i < len(res.TimeSeries); i++ {
		assert.True(t, res.TimeSeries[i-1].Date.Before(res.TimeSeries[i].Date))
	}
}

func TestTimeSeriesDropsTimeOfDay(t *testing.T) {
	rows := Subset{
		tx(day(2021, 1, 1).Add(9*time.Hour), "A", "1", "US", 1, "1"),
		tx(day(2021, 1, 1).Add(17*time.Hour), "A", "1", "US", 1, "2"),
	}

	series := TimeSeries(rows)
	require.Len(t, series, 1)
	assertEqualDecimal(t, "3", series[0].TotalSales)
}

func TestTopGroupsBoundedAndDescending(t *testing.T) {
	res := Aggregate(sampleTable(), day(2011, 1, 1), day(2011, 12, 31))

	for name, groups := range map[string][]GroupTotal{
		"products":  res.TopProducts,
		"customers": res.TopCustomers,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Len(t, groups, TopN)
			for i := 1; i < len(groups); i++ {
				assert.False(t, groups[i].TotalSales.GreaterThan(groups[i-1].TotalSales),
					"group %d (%s) exceeds group %d (%s)", i, groups[i].TotalSales, i-1, groups[i-1].TotalSales)
			}
		})
	}
}

func TestTopProductsTieBreakByKey(t *testing.T) {
	rows := Subset{
		tx(day(2021, 1, 1), "C", "1", "US", 1, "5"),
		tx(day(2021, 1, 1), "A", "1", "US", 1, "5"),
		tx(day(2021, 1, 1), "B", "1", "US", 1, "7"),
	}

	top := TopProducts(rows, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].Key)
	assert.Equal(t, "A", top[1].Key)
}

func TestTopCustomersMissingID(t *testing.T) {
	rows := Subset{
		tx(day(2021, 1, 1), "A", "", "US", 1, "50"),
		tx(day(2021, 1, 1), "A", "17850.0", "US", 1, "10"),
		tx(day(2021, 1, 1), "A", "17850", "US", 1, "5"),
	}

	top := TopCustomers(rows, TopN)
	require.Len(t, top, 2)
	assert.Equal(t, domain.MissingCustomerLabel, top[0].Key)
	assert.Equal(t, "17850", top[1].Key)
	assertEqualDecimal(t, "15", top[1].TotalSales)
}

func TestCountrySalesIgnoresRange(t *testing.T) {
	table := sampleTable()
	full := CountrySales(table)

	for _, r := range []domain.DateRange{
		{Start: day(2011, 3, 2), End: day(2011, 3, 3)},
		{Start: day(2011, 3, 5), End: day(2011, 3, 1)},
		{Start: day(1999, 1, 1), End: day(1999, 1, 2)},
	} {
		assert.Equal(t, full, Aggregate(table, r.Start, r.End).CountrySales)
	}

	assert.True(t, Total(Subset(nil)).IsZero())
	sum := decimal.Zero
	for _, c := range full {
		sum = sum.Add(c.TotalSales)
	}
	assert.True(t, Total(table).Equal(sum))
}

func TestGroupKeysAreExact(t *testing.T) {
	rows := Subset{
		tx(day(2021, 1, 1), "WIDGET ", "1", "United Kingdom ", 1, "5"),
		tx(day(2021, 1, 1), "WIDGET", "1", "United Kingdom", 1, "7"),
	}

	products := TopProducts(rows, TopN)
	require.Len(t, products, 2)
	assert.Equal(t, "WIDGET", products[0].Key)
	assert.Equal(t, "WIDGET ", products[1].Key)

	assert.Len(t, CountrySales(rows), 2)
}

func TestCountrySalesSkipsBlankCountry(t *testing.T) {
	rows := Subset{
		tx(day(2021, 1, 1), "A", "1", "", 1, "5"),
		tx(day(2021, 1, 1), "A", "1", "US", 1, "5"),
	}

	countries := CountrySales(rows)
	require.Len(t, countries, 1)
	assert.Equal(t, "US", countries[0].Key)
}

func TestAggregateIsIdempotent(t *testing.T) {
	table := sampleTable()
	first := Aggregate(table, day(2011, 3, 2), day(2011, 3, 8))
	second := Aggregate(table, day(2011, 3, 2), day(2011, 3, 8))

	assert.Equal(t, first, second)
}

func TestKeyLess(t *testing.T) {
	assert.True(t, keyLess("2", "10"), "numeric keys compare numerically")
	assert.True(t, keyLess("10", "A"), "numbers sort before text")
	assert.True(t, keyLess("A", "B"))
	assert.True(t, keyLess("99999", domain.MissingCustomerLabel))
	assert.False(t, keyLess(domain.MissingCustomerLabel, "A"))
	assert.False(t, keyLess(domain.MissingCustomerLabel, domain.MissingCustomerLabel))
}
