package chart

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/orbitdash/pkg/aggregate"
	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/errors"
)

// Format is an image output format.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

func (f Format) provider() (gochart.RendererProvider, error) {
	switch f {
	case SVG:
		return gochart.SVG, nil
	case PNG:
		return gochart.PNG, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q", string(f))
}

// Renderable is a chart that can render itself.
type Renderable interface {
	Render(rp gochart.RendererProvider, w io.Writer) error
}

// maxTicks bounds the number of labelled years on an axis.
const maxTicks = 10

var padding = gochart.Box{Top: 24, Left: 16, Right: 16, Bottom: 12}

// Timeline builds the timeline chart for f's mode.
func Timeline(f *dashboard.Frame) Renderable {
	s := f.Series()
	title := "Objects launched per year"
	if f.Mode == dashboard.Cumulative {
		title = "Cumulative objects in orbit"
	}
	if len(s) == 0 || s.Max() == 0 {
		return NoData(title, f.Width, Height)
	}
	if f.Mode == dashboard.Cumulative && len(s) > 1 {
		return cumulativeLine(title, s, f.Width)
	}
	// A line needs two x values; a single year is drawn as one bar.
	return yearlyBars(title, s, f.Width)
}

func yearlyBars(title string, s aggregate.Series, width int) Renderable {
	step := tickStep(len(s))
	bars := make([]gochart.Value, len(s))
	for i, p := range s {
		label := ""
		if i%step == 0 {
			label = strconv.Itoa(p.Year)
		}
		bars[i] = gochart.Value{
			Label: label,
			Value: float64(p.Count),
			Style: gochart.Style{FillColor: colorActive, StrokeColor: colorActive, StrokeWidth: 1},
		}
	}
	top := float64(s.Max())
	return gochart.BarChart{
		Title:      title,
		Width:      width,
		Height:     Height,
		Background: gochart.Style{Padding: padding},
		BarWidth:   barWidth(width, len(s)),
		BarSpacing: 1,
		Bars:       bars,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: top},
			Ticks: countTicks(top),
		},
	}
}

func cumulativeLine(title string, s aggregate.Series, width int) Renderable {
	xs := make([]float64, len(s))
	ys := make([]float64, len(s))
	for i, p := range s {
		xs[i] = float64(p.Year)
		ys[i] = float64(p.Count)
	}
	first, last := xs[0], xs[len(xs)-1]
	top := float64(s.Max())
	return gochart.Chart{
		Title:      title,
		Width:      width,
		Height:     Height,
		Background: gochart.Style{Padding: padding},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: first, Max: last},
			Ticks: yearTicks(s),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: top},
			Ticks: countTicks(top),
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "Cumulative",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: colorInactive,
					StrokeWidth: 2,
					DotColor:    colorInactive,
					DotWidth:    3,
				},
			},
		},
	}
}

// Status builds the status donut.
func Status(f *dashboard.Frame) Renderable {
	total := f.Totals.Total()
	title := fmt.Sprintf("Status mix (%d in current filters)", total)
	slices := f.Totals.Slices()
	if total == 0 || len(slices) == 0 {
		return NoData("Status mix", f.Width, Height)
	}
	values := make([]gochart.Value, len(slices))
	for i, sl := range slices {
		c := sliceColors[sl.Label]
		values[i] = gochart.Value{
			Label: fmt.Sprintf("%s %d", sl.Label, sl.Value),
			Value: float64(sl.Value),
			Style: gochart.Style{FillColor: c, StrokeColor: drawing.ColorWhite, StrokeWidth: 1},
		}
	}
	size := min(f.Width, Height)
	return gochart.DonutChart{
		Title:      title,
		Width:      size,
		Height:     size,
		Background: gochart.Style{Padding: padding},
		Values:     values,
	}
}

// Cohort builds the stacked payload cohort chart. Each bar carries a
// transparent headroom segment so that bar heights stay proportional to
// counts across years.
func Cohort(f *dashboard.Frame) Renderable {
	const title = "Payload cohorts by launch year"
	points := f.Cohort
	top := 0
	for _, p := range points {
		top = max(top, p.Total)
	}
	if len(points) == 0 || top == 0 {
		return NoData(title, f.Width, Height)
	}
	focus, focused := f.FocusYear()

	step := tickStep(len(points))
	bars := make([]gochart.StackedBar, len(points))
	for i, p := range points {
		name := ""
		if i%step == 0 {
			name = strconv.Itoa(p.Year)
		}
		ac, ic, sw := colorActive, colorInactive, 0.5
		if focused && p.Year == focus {
			ac, ic, sw = colorFocus, colorFocus, 1.5
		}
		bars[i] = gochart.StackedBar{
			Name:  name,
			Width: barWidth(f.Width, len(points)),
			Values: []gochart.Value{
				{Value: float64(top - p.Total), Style: gochart.Style{FillColor: drawing.ColorTransparent, StrokeColor: drawing.ColorTransparent}},
				{Label: "Active", Value: float64(p.Active), Style: gochart.Style{FillColor: colorActive, StrokeColor: ac, StrokeWidth: sw}},
				{Label: "Inactive", Value: float64(p.Inactive), Style: gochart.Style{FillColor: colorInactive, StrokeColor: ic, StrokeWidth: sw}},
			},
		}
	}
	return gochart.StackedBarChart{
		Title:      fmt.Sprintf("%s (max %d)", title, top),
		Width:      f.Width,
		Height:     Height,
		Background: gochart.Style{Padding: padding},
		BarSpacing: 1,
		Bars:       bars,
		YAxis:      gochart.Style{Hidden: true},
	}
}

// Build returns every chart of f keyed by name.
func Build(f *dashboard.Frame) map[string]Renderable {
	return map[string]Renderable{
		NameTimeline: Timeline(f),
		NameStatus:   Status(f),
		NameCohort:   Cohort(f),
	}
}

// Render draws c in the given format.
func Render(c Renderable, format Format) ([]byte, error) {
	rp, err := format.provider()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := c.Render(rp, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render chart")
	}
	return buf.Bytes(), nil
}

// placeholderTitles names each chart when a failed render is replaced by
// the "No data" placeholder.
var placeholderTitles = map[string]string{
	NameTimeline: "Timeline",
	NameStatus:   "Status mix",
	NameCohort:   "Payload cohorts by launch year",
}

// RenderAll draws every chart of f in the given format. A chart that fails
// to render is replaced by the "No data" placeholder, so the result always
// holds every chart of this frame; the first failure is returned alongside.
func RenderAll(f *dashboard.Frame, format Format) (map[string][]byte, error) {
	return renderCharts(Build(f), f.Width, format)
}

func renderCharts(charts map[string]Renderable, width int, format Format) (map[string][]byte, error) {
	if _, err := format.provider(); err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(charts))
	var first error
	for _, name := range Names() {
		c, ok := charts[name]
		if !ok {
			continue
		}
		b, err := Render(c, format)
		if err != nil {
			if first == nil {
				first = fmt.Errorf("%s: %w", name, err)
			}
			if b, err = Render(NoData(placeholderTitles[name], width, Height), format); err != nil {
				continue
			}
		}
		out[name] = b
	}
	return out, first
}

func tickStep(n int) int {
	return max(1, int(math.Ceil(float64(n)/maxTicks)))
}

func barWidth(width, n int) int {
	inner := width - padding.Left - padding.Right - 48
	return max(2, inner/max(n, 1)-1)
}

func yearTicks(s aggregate.Series) []gochart.Tick {
	step := tickStep(len(s))
	ticks := make([]gochart.Tick, 0, maxTicks+1)
	for i, p := range s {
		if i%step == 0 || i == len(s)-1 {
			ticks = append(ticks, gochart.Tick{Value: float64(p.Year), Label: strconv.Itoa(p.Year)})
		}
	}
	return ticks
}

// countTicks returns about five evenly spaced integer ticks from 0 to top.
func countTicks(top float64) []gochart.Tick {
	step := math.Max(1, math.Ceil(top/5))
	ticks := make([]gochart.Tick, 0, 7)
	for v := 0.0; v < top; v += step {
		ticks = append(ticks, gochart.Tick{Value: v, Label: strconv.Itoa(int(v))})
	}
	return append(ticks, gochart.Tick{Value: top, Label: strconv.Itoa(int(top))})
}
