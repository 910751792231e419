package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Excerpt in the layout of the UCI Online Retail export.
const retailCSV = `InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country
536365,85123A,WHITE HANGING HEART T-LIGHT HOLDER,6,12/1/2010 8:26,2.55,17850.0,United Kingdom
536365,71053,WHITE METAL LANTERN,6,12/1/2010 8:26,3.39,17850.0,United Kingdom
536366,22633,HAND WARMER UNION JACK,6,12/1/2010 8:28,1.85,,United Kingdom
536367,84879,ASSORTED COLOUR BIRD ORNAMENT,32,12/2/2010 8:34,1.69,13047.0,France
C536379,D,Discount,-1,12/3/2010 9:41,27.50,14527.0,United Kingdom
`

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(retailCSV))
	require.NoError(t, err)
	require.Equal(t, 5, table.Len())

	first := table.Row(0)
	assert.Equal(t, time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC), first.InvoiceDate)
	assert.Equal(t, "WHITE HANGING HEART T-LIGHT HOLDER", first.Description)
	assert.Equal(t, int64(6), first.Quantity)
	assert.Equal(t, "2.55", first.UnitPrice.String())
	assert.Equal(t, "15.3", first.TotalSales.String())
	assert.Equal(t, "17850", first.CustomerID.Display())

	assert.False(t, table.Row(2).CustomerID.Valid, "blank CustomerID should be missing")
	assert.Equal(t, "-27.5", table.Row(4).TotalSales.String(), "returns keep their negative sales")

	bounds := table.Bounds()
	assert.Equal(t, time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC), bounds.Start)
	assert.Equal(t, time.Date(2010, 12, 3, 9, 41, 0, 0, time.UTC), bounds.End)
}

func TestParseCSVColumnOrderAndBOM(t *testing.T) {
	data := "\ufeffCountry,CustomerID,UnitPrice,Quantity,Description,InvoiceDate\n" +
		"US,1,5,2,A,2021-01-01\n"

	table, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "10", table.Row(0).TotalSales.String())
	assert.Equal(t, "US", table.Row(0).Country)
}

func TestParseCSVMissingColumn(t *testing.T) {
	data := "InvoiceDate,Quantity,UnitPrice,Description,Country\n2021-01-01,1,1,A,US\n"

	_, err := ParseCSV(strings.NewReader(data))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "CustomerID")
}

func TestParseCSVColumnNamesAreCaseSensitive(t *testing.T) {
	data := "invoicedate,Quantity,UnitPrice,Description,CustomerID,Country\n2021-01-01,1,1,A,1,US\n"

	_, err := ParseCSV(strings.NewReader(data))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestParseCSVBadValues(t *testing.T) {
	header := "InvoiceDate,Quantity,UnitPrice,Description,CustomerID,Country\n"
	tests := []struct {
		name    string
		row     string
		wantErr string
	}{
		{"bad date", "yesterday,1,1.0,A,1,US\n", "InvoiceDate"},
		{"bad quantity", "2021-01-01,two,1.0,A,1,US\n", "Quantity"},
		{"fractional quantity", "2021-01-01,1.5,1.0,A,1,US\n", "Quantity"},
		{"bad price", "2021-01-01,1,cheap,A,1,US\n", "UnitPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(header + "2021-01-01,1,1.0,A,1,US\n" + tt.row))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "line 3")
		})
	}
}

func TestParseCSVKeepsTextFieldsVerbatim(t *testing.T) {
	data := "InvoiceDate,Quantity,UnitPrice,Description,CustomerID,Country\n" +
		"2021-01-01, 1 , 2.5 ,WIDGET , 17850.0 ,United Kingdom \n" +
		"2021-01-01,1,2.5,WIDGET,17850.0,United Kingdom\n"

	table, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	padded := table.Row(0)
	assert.Equal(t, "WIDGET ", padded.Description)
	assert.Equal(t, "United Kingdom ", padded.Country)
	assert.Equal(t, int64(1), padded.Quantity)
	assert.Equal(t, "17850", padded.CustomerID.Display())

	assert.NotEqual(t, padded.Description, table.Row(1).Description)
	assert.NotEqual(t, padded.Country, table.Row(1).Country)
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)

	table, err := ParseCSV(strings.NewReader("InvoiceDate,Quantity,UnitPrice,Description,CustomerID,Country\n"))
	require.NoError(t, err)
	assert.Zero(t, table.Len())
	assert.True(t, table.Bounds().IsZero())
}

func TestParseInvoiceDate(t *testing.T) {
	want := time.Date(2011, 12, 9, 12, 50, 0, 0, time.UTC)
	tests := []string{
		"2011-12-09 12:50:00",
		"2011-12-09T12:50:00Z",
		"2011-12-09T13:50:00+01:00",
		"2011-12-09T12:50:00",
		"2011-12-09 12:50",
		"12/9/2011 12:50",
		"12/09/2011 12:50",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			got, err := ParseInvoiceDate(raw)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}

	day, err := ParseInvoiceDate("2011-12-09")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2011, 12, 9, 0, 0, 0, 0, time.UTC), day)
}
