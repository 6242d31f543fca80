package chart

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/dataset"
	"github.com/matzehuels/orbitdash/pkg/errors"
	"github.com/matzehuels/orbitdash/pkg/facet"
	"github.com/matzehuels/orbitdash/pkg/summary"
)

func testRecords() []dataset.Record {
	pay := dataset.ObjectPayload
	return []dataset.Record{
		{Year: 2018, Country: "US", ObjectType: pay, Status: dataset.StatusActive, Operator: "SpaceX / Starlink"},
		{Year: 2019, Country: "US", ObjectType: pay, Status: dataset.StatusActive, Operator: "SpaceX / Starlink"},
		{Year: 2019, Country: "UK", ObjectType: pay, Status: dataset.StatusInactive, Operator: "OneWeb"},
		{Year: 2019, Country: "CN", ObjectType: dataset.ObjectDebris, Status: dataset.StatusDebris},
		{Year: 2020, Country: "FR", ObjectType: dataset.ObjectRocketBody, Status: dataset.StatusRocketBody},
	}
}

func newCoordinator(t *testing.T, sinks ...dashboard.Sink) *dashboard.Coordinator {
	t.Helper()
	ds := dataset.New(testRecords())
	c, err := dashboard.New(ds, facet.Build(ds.Records),
		dashboard.WithLogger(log.New(io.Discard)),
		dashboard.WithSinks(sinks...),
		dashboard.WithWidth(640))
	if err != nil {
		t.Fatalf("dashboard.New() error: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestRenderAllSVG(t *testing.T) {
	c := newCoordinator(t)
	if err := c.ToggleFocus(2019); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	for _, mode := range []dashboard.Mode{dashboard.Yearly, dashboard.Cumulative} {
		if err := c.SetMode(mode); err != nil {
			t.Fatal(err)
		}
		svgs, err := RenderAll(c.Frame(), SVG)
		if err != nil {
			t.Fatalf("RenderAll(%v) error: %v", mode, err)
		}
		for _, name := range Names() {
			b := svgs[name]
			if !bytes.Contains(b, []byte("<svg")) {
				t.Errorf("%s/%v: output is not SVG", name, mode)
			}
			if bytes.Contains(b, []byte(TextNoData)) {
				t.Errorf("%s/%v: unexpected placeholder", name, mode)
			}
		}
	}
}

func TestEmptyFrameRendersPlaceholder(t *testing.T) {
	c := newCoordinator(t)
	if err := c.SetSelection(facet.Country, []string{"FR"}); err != nil {
		t.Fatal(err)
	}
	if err := c.SetSelection(facet.ObjectType, []string{"PAYLOAD"}); err != nil {
		t.Fatal(err)
	}
	f := c.Frame()
	if !f.Empty {
		t.Fatal("expected an empty frame")
	}
	svgs, err := RenderAll(f, SVG)
	if err != nil {
		t.Fatalf("RenderAll() error: %v", err)
	}
	for _, name := range Names() {
		if !bytes.Contains(svgs[name], []byte(TextNoData)) {
			t.Errorf("%s: missing %q placeholder", name, TextNoData)
		}
	}
}

func TestNoCohortWithoutPayloads(t *testing.T) {
	c := newCoordinator(t)
	if err := c.SetSelection(facet.ObjectType, []string{"DEBRIS", "ROCKET_BODY"}); err != nil {
		t.Fatal(err)
	}
	b, err := Render(Cohort(c.Frame()), SVG)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte(TextNoData)) {
		t.Error("cohort without payloads should render the placeholder")
	}
	b, err = Render(Status(c.Frame()), SVG)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(b, []byte(TextNoData)) {
		t.Error("status with debris and rocket bodies should render a donut")
	}
}

func TestRenderPNG(t *testing.T) {
	c := newCoordinator(t)
	c.Refresh()
	b, err := Render(Timeline(c.Frame()), PNG)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	_, err := Render(NoData("x", 320, 200), Format("gif"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render() error = %v, want INVALID_FORMAT", err)
	}
}

func TestCanvas(t *testing.T) {
	cv := NewCanvas(log.New(io.Discard))
	if _, ok := cv.SVG(NameTimeline); ok {
		t.Error("empty canvas should have no charts")
	}

	c := newCoordinator(t, cv)
	c.Refresh()
	for _, name := range Names() {
		if _, ok := cv.SVG(name); !ok {
			t.Errorf("canvas missing %s", name)
		}
	}
	if cv.Frame() != c.Frame() {
		t.Error("canvas should hold the latest frame")
	}

	s := summary.Summary{Year: 2019, Title: summary.Title(2019), Extract: "text", State: summary.StateReady}
	if err := cv.DrawSummary(context.Background(), 2019, s); err != nil {
		t.Fatal(err)
	}
	if cv.Summary().Extract != "text" {
		t.Errorf("Summary() = %+v", cv.Summary())
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"svg", 1, false},
		{"svg, json", 2, false},
		{"SVG,svg,png", 2, false},
		{"", 0, true},
		{"svg,gif", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFormats(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if len(got) != tt.want {
			t.Errorf("ParseFormats(%q) = %v, want %d formats", tt.in, got, tt.want)
		}
	}
}

func TestWriteFiles(t *testing.T) {
	c := newCoordinator(t)
	c.Refresh()
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := WriteFiles(dir, "", c.Frame(), []string{"svg", "json"})
	if err != nil {
		t.Fatalf("WriteFiles() error: %v", err)
	}
	want := []string{"timeline.svg", "status.svg", "cohort.svg", "frame.json"}
	if len(paths) != len(want) {
		t.Fatalf("wrote %v, want %v", paths, want)
	}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, filepath.Base(p), want[i])
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "frame.json"))
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Matched   int               `json:"matched"`
		Mode      string            `json:"mode"`
		Summaries map[string]string `json:"summaries"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("frame.json: %v", err)
	}
	if decoded.Matched != 5 || decoded.Mode != "yearly" || decoded.Summaries["country"] != "(All)" {
		t.Errorf("frame.json = %+v", decoded)
	}

	paths, err = WriteFiles(dir, "leo", c.Frame(), []string{"svg"})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(paths[0]) != "leo-timeline.svg" {
		t.Errorf("prefixed path = %s", paths[0])
	}
}

func TestSingleYearCumulative(t *testing.T) {
	cv := NewCanvas(log.New(io.Discard))
	ds := dataset.New([]dataset.Record{
		{Year: 2001, Country: "US", ObjectType: dataset.ObjectPayload, Status: dataset.StatusActive},
	})
	for _, width := range []int{320, 980} {
		c, err := dashboard.New(ds, facet.Build(ds.Records),
			dashboard.WithLogger(log.New(io.Discard)),
			dashboard.WithSinks(cv),
			dashboard.WithWidth(width))
		if err != nil {
			t.Fatal(err)
		}
		c.Refresh()
		if err := c.SetMode(dashboard.Cumulative); err != nil {
			t.Fatal(err)
		}
		if _, err := RenderAll(c.Frame(), SVG); err != nil {
			t.Errorf("width %d: RenderAll() error: %v", width, err)
		}
		if cv.Frame() != c.Frame() {
			t.Errorf("width %d: canvas frame is not the latest", width)
		}
		b, ok := cv.SVG(NameTimeline)
		if !ok || !bytes.Contains(b, []byte("Cumulative objects in orbit")) {
			t.Errorf("width %d: timeline = %q", width, b)
		}
		for _, name := range []string{NameStatus, NameCohort} {
			if _, ok := cv.SVG(name); !ok {
				t.Errorf("width %d: canvas missing %s", width, name)
			}
		}
		c.Close()
	}
}

type brokenChart struct{}

func (brokenChart) Render(gochart.RendererProvider, io.Writer) error {
	return stderrors.New("broken")
}

func TestCanvasReplacesOutputOnFailure(t *testing.T) {
	cv := NewCanvas(log.New(io.Discard))
	c := newCoordinator(t, cv)
	c.Refresh()
	before, _ := cv.SVG(NameTimeline)

	cv.build = func(f *dashboard.Frame) map[string]Renderable {
		charts := Build(f)
		charts[NameTimeline] = brokenChart{}
		return charts
	}
	if err := c.SetMode(dashboard.Cumulative); err != nil {
		t.Fatal(err)
	}

	if cv.Frame() != c.Frame() {
		t.Errorf("canvas frame generation = %d, want %d", cv.Frame().Generation, c.Frame().Generation)
	}
	after, ok := cv.SVG(NameTimeline)
	if !ok {
		t.Fatal("timeline missing after failed draw")
	}
	if bytes.Equal(before, after) {
		t.Error("previous timeline still shown after failed draw")
	}
	if !bytes.Contains(after, []byte(TextNoData)) {
		t.Error("failed timeline should show the placeholder")
	}
	if b, _ := cv.SVG(NameStatus); bytes.Contains(b, []byte(TextNoData)) {
		t.Error("status should still render when only the timeline fails")
	}

	if err := cv.Draw(context.Background(), c.Frame()); err == nil {
		t.Error("Draw() should report the failed chart")
	}
}
