package server

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/pipeline"
)

type barRow struct {
	Label string
	Value string
	Pct   float64
}

type pageData struct {
	Filter    model.Filter
	Types     []string
	Error     string
	Report    *model.Report
	Query     template.URL
	Amount    []barRow
	Providers []barRow
	Monthly   []barRow
	TypeBars  []barRow
	Yearly    []barRow
	Notices   []string
}

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

func (s *Service) handlePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{Filter: s.cfg.Defaults, Types: model.ProcessTypes}
	status := http.StatusOK

	f, err := parseFilter(r, s.cfg.Defaults)
	switch {
	case err != nil:
		status = http.StatusBadRequest
		data.Error = err.Error()
	default:
		data.Filter = f
		report, _, err := s.report(r.Context(), f)
		switch {
		case errors.Is(err, pipeline.ErrNoData):
			status = http.StatusNotFound
			data.Error = cli.NoDataMessage
		case err != nil:
			status = http.StatusInternalServerError
			data.Error = "internal error"
		default:
			fillPage(&data, report)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, data); err != nil {
		s.log.Warn("rendering page", zap.Error(err))
	}
}

func fillPage(data *pageData, r *model.Report) {
	data.Report = r
	q := url.Values{}
	q.Set("year", strconv.Itoa(r.Filter.Year))
	q.Set("region", r.Filter.Region)
	q.Set("type", r.Filter.Type)
	if r.Filter.SinceYear > 0 {
		q.Set("since_year", strconv.Itoa(r.Filter.SinceYear))
	}
	data.Query = template.URL(q.Encode()) //nolint:gosec // built by url.Values.Encode

	if r.HasAmount {
		a := r.Amount
		data.Amount = []barRow{
			{Label: "Total", Value: cli.FormatMoney(a.Sum)},
			{Label: "Promedio", Value: cli.FormatMoney(a.Mean)},
			{Label: "Máximo", Value: cli.FormatMoney(a.Max)},
			{Label: "Mínimo", Value: cli.FormatMoney(a.Min)},
			{Label: "Mediana", Value: cli.FormatMoney(a.Median)},
		}
	}

	maxProvider := 0
	for _, p := range r.Providers {
		maxProvider = max(maxProvider, p.Count)
	}
	for _, p := range r.Providers {
		data.Providers = append(data.Providers, bar(p.Provider, p.Count, maxProvider))
	}

	maxMonth := 0
	for _, m := range r.Monthly {
		maxMonth = max(maxMonth, m.Count)
	}
	for _, m := range r.Monthly {
		data.Monthly = append(data.Monthly, bar(cli.FormatMonth(m.Month), m.Count, maxMonth))
	}

	total := 0
	for _, t := range r.Types {
		total += t.Count
	}
	for _, t := range r.Types {
		data.TypeBars = append(data.TypeBars, bar(t.Type, t.Count, total))
	}

	maxYear := 0
	for _, y := range r.Yearly {
		maxYear = max(maxYear, y.Count)
	}
	for _, y := range r.Yearly {
		b := bar(strconv.Itoa(y.Year), y.Count, maxYear)
		if r.HasTotal {
			b.Value += " · " + cli.FormatMoney(y.Total)
		}
		data.Yearly = append(data.Yearly, b)
	}

	for _, sk := range r.Skipped {
		data.Notices = append(data.Notices, sk.View+": falta la columna "+sk.Field)
	}
}

func bar(label string, count, peak int) barRow {
	pct := 0.0
	if peak > 0 {
		pct = float64(count) / float64(peak) * 100
	}
	return barRow{Label: label, Value: cli.FormatNumber(int64(count)), Pct: pct}
}

const pageHTML = `<!doctype html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Compras públicas</title>
<style>
body { font-family: system-ui, sans-serif; background: #100F0F; color: #FFFCF0; margin: 2rem; }
h1 { color: #3AA99F; font-size: 1.4rem; }
h2 { color: #3AA99F; font-size: 1.1rem; margin-top: 2rem; }
form { display: flex; gap: 1rem; align-items: end; margin-bottom: 1.5rem; }
label { display: flex; flex-direction: column; font-size: .8rem; color: #6F6E69; }
input, select, button { background: #1C1B1A; color: #FFFCF0; border: 1px solid #282726; padding: .3rem .5rem; }
.error { color: #D14D41; }
.notice { color: #DA702C; font-size: .85rem; }
.kpis { display: flex; gap: 1rem; flex-wrap: wrap; }
.kpi { background: #1C1B1A; padding: .8rem 1rem; border-radius: 6px; min-width: 8rem; }
.kpi span { display: block; color: #6F6E69; font-size: .75rem; }
table { border-collapse: collapse; width: 100%; max-width: 56rem; }
td { padding: .15rem .5rem; font-size: .85rem; }
td.label { width: 14rem; white-space: nowrap; overflow: hidden; text-overflow: ellipsis; }
td.value { width: 10rem; text-align: right; color: #6F6E69; }
.bar { background: #4385BE; height: .7rem; }
a { color: #3AA99F; }
</style>
</head>
<body>
<h1>Compras públicas</h1>
<form method="get" action="/">
  <label>Año <input type="number" name="year" value="{{.Filter.Year}}" min="2008" max="2100"></label>
  <label>Región <input type="text" name="region" value="{{.Filter.Region}}"></label>
  <label>Tipo <select name="type">{{range .Types}}<option{{if eq . $.Filter.Type}} selected{{end}}>{{.}}</option>{{end}}</select></label>
  <button type="submit">Actualizar</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{with .Report}}
<div class="kpis">
  <div class="kpi"><span>Registros</span>{{.Records}}</div>
  {{range $.Amount}}<div class="kpi"><span>{{.Label}}</span>{{.Value}}</div>{{end}}
</div>
<p><a href="/api/v1/export.csv?{{$.Query}}">CSV</a> · <a href="/api/v1/export.xlsx?{{$.Query}}">XLSX</a> · <a href="/api/v1/export.pdf?{{$.Query}}">PDF</a> · <a href="/api/v1/report?{{$.Query}}">JSON</a></p>
{{range $.Notices}}<p class="notice">{{.}}</p>{{end}}
{{if $.Providers}}<h2>Principales proveedores</h2>
<table>{{range $.Providers}}<tr><td class="label">{{.Label}}</td><td><div class="bar" style="width: {{printf "%.1f" .Pct}}%"></div></td><td class="value">{{.Value}}</td></tr>{{end}}</table>{{end}}
{{if $.Monthly}}<h2>Registros por mes</h2>
<table>{{range $.Monthly}}<tr><td class="label">{{.Label}}</td><td><div class="bar" style="width: {{printf "%.1f" .Pct}}%"></div></td><td class="value">{{.Value}}</td></tr>{{end}}</table>{{end}}
{{if $.TypeBars}}<h2>Tipos de proceso</h2>
<table>{{range $.TypeBars}}<tr><td class="label">{{.Label}}</td><td><div class="bar" style="width: {{printf "%.1f" .Pct}}%"></div></td><td class="value">{{.Value}}</td></tr>{{end}}</table>{{end}}
{{if $.Yearly}}<h2>Registros por año</h2>
<table>{{range $.Yearly}}<tr><td class="label">{{.Label}}</td><td><div class="bar" style="width: {{printf "%.1f" .Pct}}%"></div></td><td class="value">{{.Value}}</td></tr>{{end}}</table>{{end}}
<p class="notice">Report {{.ID}}</p>
{{end}}
</body>
</html>
`
