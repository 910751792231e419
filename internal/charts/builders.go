package charts

import (
	"github.com/dvloznov/sales-dashboard/internal/analytics"
)

// Chart titles as shown above each panel.
const (
	TitleSalesOverTime = "📈 Sales Over Time"
	TitleTopProducts   = "🔥 Top 10 Products"
	TitleCountrySales  = "🌍 Sales by Country"
	TitleTopCustomers  = "👥 Top 10 Customers"
)

const (
	compactWidth  = 600
	compactHeight = 400
)

// SalesOverTime renders daily totals as a line chart.
func SalesOverTime(days []analytics.DailyTotal) Figure {
	trace := Trace{Type: "scatter", Mode: "lines"}
	for _, d := range days {
		trace.X = append(trace.X, d.Date.String())
		trace.Y = append(trace.Y, d.TotalSales.InexactFloat64())
	}

	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title: Text{Text: TitleSalesOverTime},
			XAxis: axis("InvoiceDate"),
			YAxis: axis("TotalSales"),
		},
	}
}

// TopProducts renders the ranked products as a horizontal bar chart in the
// order given.
func TopProducts(groups []analytics.GroupTotal) Figure {
	trace := Trace{Type: "bar", Orientation: "h"}
	for _, g := range groups {
		trace.X = append(trace.X, g.TotalSales.InexactFloat64())
		trace.Y = append(trace.Y, g.Key)
	}

	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title: Text{Text: TitleTopProducts},
			XAxis: axis("Sales"),
			YAxis: axis("Product"),
		},
	}
}

// CountrySales renders each country's share of sales as a pie without slice
// labels.
func CountrySales(groups []analytics.GroupTotal) Figure {
	trace := Trace{Type: "pie", TextInfo: "none"}
	for _, g := range groups {
		trace.Labels = append(trace.Labels, g.Key)
		trace.Values = append(trace.Values, g.TotalSales.InexactFloat64())
	}

	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title:  Text{Text: TitleCountrySales},
			Height: compactHeight,
			Width:  compactWidth,
			Margin: &Margin{T: 40, B: 40},
		},
	}
}

// TopCustomers renders the ranked customers as a vertical bar chart. The x
// axis is categorical so numeric ids are not spread over a linear scale.
func TopCustomers(groups []analytics.GroupTotal) Figure {
	trace := Trace{Type: "bar"}
	for _, g := range groups {
		trace.X = append(trace.X, g.Key)
		trace.Y = append(trace.Y, g.TotalSales.InexactFloat64())
	}

	x := axis("Customer ID")
	x.Type = "category"
	x.TickAngle = -45

	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title:  Text{Text: TitleTopCustomers},
			XAxis:  x,
			YAxis:  axis("Total Sales"),
			Height: compactHeight,
			Width:  compactWidth,
		},
	}
}

// Empty is a figure with one trace-less panel, used when a chart could not be
// computed.
func Empty(title string) Figure {
	return Figure{
		Data:   []Trace{},
		Layout: Layout{Title: Text{Text: title}},
	}
}
