package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dvloznov/sales-dashboard/internal/api/middleware"
	"github.com/dvloznov/sales-dashboard/internal/dashboard"
	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/dvloznov/sales-dashboard/internal/logger"
	"github.com/rs/zerolog"
)

// Dashboard is what the handlers need from the dashboard service.
type Dashboard interface {
	Layout() dashboard.Page
	Refresh(ctx context.Context, start, end time.Time, seq int64) (*dashboard.View, error)
}

// DashboardHandler serves the page and the chart API.
type DashboardHandler struct {
	dash Dashboard
	log  zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dash Dashboard, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dash: dash,
		log:  log,
	}
}

// Page handles GET /
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	page := h.dash.Layout()
	data := pageData{
		Page:      page,
		PlotlyURL: PlotlyURL,
	}
	if !page.Bounds.IsZero() {
		// The picker may be preset from the query string, kept inside the bounds.
		selected := page.Bounds
		if v, err := parseDateParam(r.URL.Query().Get("start_date"), selected.Start); err == nil {
			selected.Start = v
		}
		if v, err := parseDateParam(r.URL.Query().Get("end_date"), selected.End); err == nil {
			selected.End = v
		}
		selected = selected.Clamp(page.Bounds)

		data.Min = page.Bounds.Start.Format(domain.DateLayout)
		data.Max = page.Bounds.End.Format(domain.DateLayout)
		data.Start = selected.Start.Format(domain.DateLayout)
		data.End = selected.End.Format(domain.DateLayout)
		data.Query = pickerQuery(data.Start, data.End, data.Min, data.Max)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.log.Error().Err(err).Msg("Failed to render page")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Layout handles GET /api/layout
func (h *DashboardHandler) Layout(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.dash.Layout())
}

// Refresh handles GET /api/dashboard
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	bounds := h.dash.Layout().Bounds

	start, err := parseDateParam(query.Get("start_date"), bounds.Start)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid start_date format")
		return
	}

	end, err := parseDateParam(query.Get("end_date"), bounds.End)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid end_date format")
		return
	}

	var seq int64
	if s := query.Get("seq"); s != "" {
		seq, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid seq")
			return
		}
	}

	view, err := h.dash.Refresh(ctx, start, end, seq)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Time("start", start).Time("end", end).Msg("Failed to refresh dashboard")
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		middleware.WriteError(w, status, "Failed to refresh dashboard")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, view)
}

// pickerQuery is the first /api/dashboard query the page sends. A picker
// value equal to its bound is left out so the bound's full timestamp applies.
func pickerQuery(start, end, first, last string) string {
	q := url.Values{}
	if start != "" && start != first {
		q.Set("start_date", start)
	}
	if end != "" && end != last {
		q.Set("end_date", end)
	}
	return q.Encode()
}

// parseDateParam parses a start_date/end_date value. An empty value yields def.
func parseDateParam(value string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	return domain.ParseDate(value)
}

// HealthHandler reports liveness.
type HealthHandler struct {
	rows    int
	started time.Time
}

// NewHealthHandler creates a health handler for a dataset of rows rows.
func NewHealthHandler(rows int) *HealthHandler {
	return &HealthHandler{rows: rows, started: time.Now()}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"rows":   h.rows,
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}
