package handlers

import (
	"html/template"

	"github.com/dvloznov/sales-dashboard/internal/dashboard"
)

// PlotlyURL is the browser-side charting library.
const PlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Page.Title}}</title>
<script src="{{.PlotlyURL}}"></script>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; margin: 0 auto; padding: 1rem; max-width: 1400px; }
h1 { text-align: center; }
.picker { display: flex; gap: .5rem; justify-content: center; align-items: center; margin-bottom: 1rem; }
.picker input { padding: .375rem .5rem; border: 1px solid #dee2e6; border-radius: 4px; }
.charts { display: grid; grid-template-columns: repeat(2, 1fr); gap: 1rem; }
@media (max-width: 768px) { .charts { grid-template-columns: 1fr; } }
.panel-error { color: #dc3545; font-size: .875rem; min-height: 1.25rem; }
</style>
</head>
<body>
<h1>{{.Page.Heading}}</h1>

<div class="picker" id="picker" data-query="{{.Query}}">
  <input type="date" id="start-date" min="{{.Min}}" max="{{.Max}}" value="{{.Start}}">
  <span>&rarr;</span>
  <input type="date" id="end-date" min="{{.Min}}" max="{{.Max}}" value="{{.End}}">
</div>

<section class="charts">
{{range .Page.Panels}}  <div class="chart-box"><div class="panel-error" id="{{.}}-error"></div><div id="{{.}}"></div></div>
{{end}}</section>

<script>
const page = {{.Page}};
let seq = 0;
let applied = 0;

// A picker left on a dataset bound sends no parameter, so the server uses the
// full bound timestamp and the last invoice day stays in range.
function pickerQuery() {
  const start = document.getElementById("start-date");
  const end = document.getElementById("end-date");
  const params = new URLSearchParams();
  if (start.value && start.value !== start.min) params.set("start_date", start.value);
  if (end.value && end.value !== end.max) params.set("end_date", end.value);
  return params.toString();
}

function refresh(query) {
  const mine = ++seq;
  const params = new URLSearchParams(query);
  params.set("seq", String(mine));

  fetch("/api/dashboard?" + params.toString())
    .then(function (resp) { return resp.json(); })
    .then(function (view) {
      if (view.error) { throw new Error(view.error); }
      if (view.seq < applied) { return; }
      applied = view.seq;
      view.panels.forEach(function (panel) {
        document.getElementById(panel.id + "-error").textContent = panel.error || "";
        Plotly.react(panel.id, panel.figure.data, panel.figure.layout);
      });
    })
    .catch(function (err) {
      page.panels.forEach(function (id) {
        document.getElementById(id + "-error").textContent = String(err.message || err);
      });
    });
}

document.getElementById("start-date").addEventListener("change", function () { refresh(pickerQuery()); });
document.getElementById("end-date").addEventListener("change", function () { refresh(pickerQuery()); });
refresh(document.getElementById("picker").dataset.query);
</script>
</body>
</html>
`))

type pageData struct {
	Page      dashboard.Page
	Min       string
	Max       string
	Start     string
	End       string
	Query     string
	PlotlyURL string
}
