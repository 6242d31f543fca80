package server

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/orbitdash/pkg/aggregate"
	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/facet"
	"github.com/matzehuels/orbitdash/pkg/render/chart"
)

var funcMap = template.FuncMap{
	"num": thousands,
}

// thousands formats n with comma group separators.
func thousands(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

var pageTmpl = template.Must(template.New("page").Funcs(funcMap).Parse(pageHTML))

type facetView struct {
	Dim     string
	Title   string
	Caption string
	Options []facetValue
}

type modeView struct {
	Name   string
	Active bool
}

type pageData struct {
	Frame         *dashboard.Frame
	Facets        []facetView
	Modes         []modeView
	Charts        []string
	DebrisRatio   string
	InactiveRatio string
	FocusYear     int
	Focused       bool
	SummaryText   string
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	d := sess.Dashboard
	f := d.Frame()
	if f == nil {
		d.Refresh()
		f = d.Frame()
	}

	data := pageData{
		Frame:         f,
		Charts:        chart.Names(),
		DebrisRatio:   aggregate.FormatPercent(f.Totals.DebrisPerActive()),
		InactiveRatio: aggregate.FormatPercent(f.Totals.InactivePerActive()),
	}
	idx := d.Index()
	for _, dim := range facet.Dimensions() {
		fv := facetView{Dim: dim.String(), Title: dim.Title(), Caption: f.Summaries[dim]}
		for _, l := range idx.Values(dim) {
			fv.Options = append(fv.Options, facetValue{Label: l, Count: idx.Count(dim, l), Selected: f.Selection.Has(dim, l)})
		}
		data.Facets = append(data.Facets, fv)
	}
	for _, m := range []dashboard.Mode{dashboard.Yearly, dashboard.Cumulative} {
		data.Modes = append(data.Modes, modeView{Name: m.String(), Active: f.Mode == m})
	}
	if f.Focus != nil {
		data.Focused = true
		data.FocusYear = f.Focus.Year
		data.SummaryText = sess.Canvas.Summary().Text()
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>orbitdash</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 1.5rem; color: #1f2d3d; }
  .row { display: flex; flex-wrap: wrap; gap: 1rem; }
  .facet { border: 1px solid #d0d7de; border-radius: 6px; padding: .5rem; max-height: 16rem; overflow-y: auto; min-width: 14rem; }
  .facet button { display: block; width: 100%; text-align: left; border: none; background: none; cursor: pointer; padding: 1px 4px; }
  .facet button.on { background: #7aa7ff; color: #fff; }
  .kpi { font-size: 1.4rem; font-weight: 700; }
  .muted { color: #9aa0a6; }
  .years button { margin: 1px; padding: 1px 4px; font-size: .75rem; }
  .years button.on { background: #1f2d3d; color: #fff; }
  form { display: inline; }
</style>
</head>
<body>
<h1>Orbital objects <span class="muted">{{num .Frame.Matched}} of {{num .Frame.Total}}</span></h1>

<div class="row">
{{range .Facets}}{{$dim := .Dim}}
  <div class="facet">
    <strong>{{.Title}}</strong> <span class="muted">{{.Caption}}</span>
    <form method="post" action="/api/selection/{{$dim}}/select-all"><button type="submit">Select all</button></form>
    <form method="post" action="/api/selection/{{$dim}}/clear"><button type="submit">Clear</button></form>
    {{range .Options}}
    <form method="post" action="/api/selection/{{$dim}}/toggle">
      <input type="hidden" name="label" value="{{.Label}}">
      <button type="submit"{{if .Selected}} class="on"{{end}}>{{.Label}} <span class="muted">{{.Count}}</span></button>
    </form>
    {{end}}
  </div>
{{end}}
</div>

<p>
  <form method="post" action="/api/clear"><button type="submit">Clear all filters</button></form>
  {{range .Modes}}<form method="post" action="/api/mode/{{.Name}}"><button type="submit"{{if .Active}} disabled{{end}}>{{.Name}}</button></form>{{end}}
</p>

{{if .Frame.Empty}}<p class="muted">No objects match the current filters.</p>{{end}}

<div class="row">
  <div>Active <div class="kpi">{{num .Frame.Totals.Active}}</div></div>
  <div>Inactive <div class="kpi">{{num .Frame.Totals.Inactive}}</div></div>
  <div>Debris <div class="kpi">{{num .Frame.Totals.Debris}}</div></div>
  <div>Rocket bodies <div class="kpi">{{num .Frame.Totals.RocketBodies}}</div></div>
  <div>Debris per active <div class="kpi">{{.DebrisRatio}}</div></div>
  <div>Inactive per active <div class="kpi">{{.InactiveRatio}}</div></div>
</div>

<div class="row">
{{range .Charts}}  <img src="/charts/{{.}}.svg?g={{$.Frame.Generation}}" alt="{{.}} chart">
{{end}}</div>

<div class="years">
{{range .Frame.Years}}<form method="post" action="/api/focus/{{.}}"><button type="submit"{{if and $.Focused (eq . $.FocusYear)}} class="on"{{end}}>{{.}}</button></form>{{end}}
</div>

{{with .Frame.Focus}}
<section>
  <h2>{{.Year}} <span class="muted">{{num .Count}} objects</span></h2>
  <div class="row">
    <div><strong>Top operators</strong><ol>{{range .Operators}}<li>{{.Label}}: {{num .Count}}</li>{{end}}</ol></div>
    <div><strong>Top drivers</strong><ol>{{range .Drivers}}<li>{{.Label}}: {{num .Count}}</li>{{end}}</ol></div>
  </div>
  <h3>{{.Summary.Title}}</h3>
  {{if .Summary.ImageURL}}<img src="{{.Summary.ImageURL}}" alt="" style="max-width: 200px">{{end}}
  <p>{{$.SummaryText}}</p>
</section>
{{end}}
</body>
</html>
`
