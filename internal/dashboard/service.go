package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/sales-dashboard/internal/analytics"
	"github.com/dvloznov/sales-dashboard/internal/charts"
	"github.com/dvloznov/sales-dashboard/internal/dataset"
	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// Title is the browser tab title.
	Title = "Sales Dashboard"
	// Heading is shown at the top of the page.
	Heading = "📦 Sales Dashboard"
)

// Panel ids in two-by-two reading order.
const (
	PanelSalesOverTime       = "sales-over-time"
	PanelTopProducts         = "top-products"
	PanelCountryDistribution = "country-distribution"
	PanelTopCustomers        = "top-customers"
)

// Page is the initial page model.
type Page struct {
	Title   string           `json:"title"`
	Heading string           `json:"heading"`
	Bounds  domain.DateRange `json:"bounds"`
	Rows    int              `json:"rows"`
	Panels  []string         `json:"panels"`
}

// Panel is one rendered chart. Error is set when the chart could not be
// computed; Figure is then empty.
type Panel struct {
	ID     string        `json:"id"`
	Figure charts.Figure `json:"figure"`
	Error  string        `json:"error,omitempty"`
}

// View is the answer to one date-range change.
type View struct {
	Range  domain.DateRange `json:"range"`
	Seq    int64            `json:"seq"`
	Panels []Panel          `json:"panels"`
}

// Panel looks up a panel by id.
func (v *View) Panel(id string) (Panel, bool) {
	for _, p := range v.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return Panel{}, false
}

type panelSpec struct {
	id     string
	title  string
	render func(table analytics.Rows, filtered analytics.Subset) charts.Figure
}

func defaultPanels() []panelSpec {
	return []panelSpec{
		{
			id:    PanelSalesOverTime,
			title: charts.TitleSalesOverTime,
			render: func(_ analytics.Rows, filtered analytics.Subset) charts.Figure {
				return charts.SalesOverTime(analytics.TimeSeries(filtered))
			},
		},
		{
			id:    PanelTopProducts,
			title: charts.TitleTopProducts,
			render: func(_ analytics.Rows, filtered analytics.Subset) charts.Figure {
				return charts.TopProducts(analytics.TopProducts(filtered, analytics.TopN))
			},
		},
		{
			id:    PanelCountryDistribution,
			title: charts.TitleCountrySales,
			render: func(table analytics.Rows, _ analytics.Subset) charts.Figure {
				return charts.CountrySales(analytics.CountrySales(table))
			},
		},
		{
			id:    PanelTopCustomers,
			title: charts.TitleTopCustomers,
			render: func(_ analytics.Rows, filtered analytics.Subset) charts.Figure {
				return charts.TopCustomers(analytics.TopCustomers(filtered, analytics.TopN))
			},
		},
	}
}

// Service turns date-range changes into chart panels over a loaded table.
type Service struct {
	table  *dataset.Table
	panels []panelSpec
	log    zerolog.Logger
}

// NewService creates a dashboard service over table.
func NewService(table *dataset.Table, log zerolog.Logger) *Service {
	return &Service{
		table:  table,
		panels: defaultPanels(),
		log:    log,
	}
}

// Layout returns the initial page model. The picker starts at the table bounds.
func (s *Service) Layout() Page {
	ids := make([]string, 0, len(s.panels))
	for _, p := range s.panels {
		ids = append(ids, p.id)
	}

	return Page{
		Title:   Title,
		Heading: Heading,
		Bounds:  s.table.Bounds(),
		Rows:    s.table.Len(),
		Panels:  ids,
	}
}

// Refresh renders every panel for [start, end]. Panels are computed
// concurrently; a failing panel is reported in its Error field and does not
// affect the others. Only ctx cancellation fails the whole refresh.
func (s *Service) Refresh(ctx context.Context, start, end time.Time, seq int64) (*View, error) {
	begin := time.Now()
	r := domain.DateRange{Start: start, End: end}
	filtered := analytics.Filter(s.table, r)

	panels := make([]Panel, len(s.panels))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range s.panels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			panels[i] = s.renderPanel(spec, filtered)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("refresh dashboard: %w", err)
	}

	s.log.Debug().
		Time("start", start).
		Time("end", end).
		Int64("seq", seq).
		Int("rows", len(filtered)).
		Dur("duration", time.Since(begin)).
		Msg("Dashboard refreshed")

	return &View{Range: r, Seq: seq, Panels: panels}, nil
}

func (s *Service) renderPanel(spec panelSpec, filtered analytics.Subset) (panel Panel) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error().
				Str("panel", spec.id).
				Interface("panic", rec).
				Msg("Panel render failed")
			panel = Panel{
				ID:     spec.id,
				Figure: charts.Empty(spec.title),
				Error:  fmt.Sprintf("failed to render %s", spec.id),
			}
		}
	}()

	return Panel{ID: spec.id, Figure: spec.render(s.table, filtered)}
}
