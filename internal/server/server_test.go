package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/dataset"
	"github.com/matzehuels/orbitdash/pkg/facet"
	"github.com/matzehuels/orbitdash/pkg/observability/prom"
	"github.com/matzehuels/orbitdash/pkg/render/chart"
	"github.com/matzehuels/orbitdash/pkg/session"
)

func testRecords() []dataset.Record {
	pay := dataset.ObjectPayload
	return []dataset.Record{
		{Year: 2019, Country: "US", ObjectType: pay, Status: dataset.StatusActive, Operator: "SpaceX / Starlink", Driver: "Starlink"},
		{Year: 2019, Country: "CN", ObjectType: dataset.ObjectDebris, Status: dataset.StatusDebris, Operator: "Other / Misc", Driver: "Other"},
		{Year: 2020, Country: "US", ObjectType: pay, Status: dataset.StatusActive, Operator: "SpaceX / Starlink", Driver: "Starlink"},
		{Year: 2020, Country: "UK", ObjectType: pay, Status: dataset.StatusInactive, Operator: "OneWeb", Driver: "OneWeb"},
	}
}

type harness struct {
	srv    *Server
	store  *session.Store
	cookie *http.Cookie
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	ds := dataset.New(testRecords())
	idx := facet.Build(ds.Records)
	logger := log.New(io.Discard)
	store := session.NewStore(0, func(context.Context) (*session.Session, error) {
		canvas := chart.NewCanvas(logger)
		coord, err := dashboard.New(ds, idx,
			dashboard.WithLogger(logger),
			dashboard.WithSinks(canvas),
			dashboard.WithWidth(480))
		if err != nil {
			return nil, err
		}
		return &session.Session{Dashboard: coord, Canvas: canvas}, nil
	})
	t.Cleanup(store.Close)
	opts.Logger = logger
	return &harness{srv: New(store, opts), store: store}
}

// do sends a request, carrying the session cookie between calls.
func (h *harness) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			h.cookie = c
		}
	}
	return rec
}

func decodeFrame(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var f map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body, err)
	}
	return body.Error.Code
}

func TestPageCreatesSession(t *testing.T) {
	h := newHarness(t, Options{})

	rec := h.do(http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", rec.Code)
	}
	if h.cookie == nil {
		t.Fatal("no session cookie set")
	}
	body := rec.Body.String()
	for _, want := range []string{"Orbital objects", "SpaceX / Starlink", "/charts/timeline.svg", "(All)"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	first := h.cookie.Value
	rec = h.do(http.MethodGet, "/", nil)
	if len(rec.Result().Cookies()) != 0 {
		t.Error("existing session should not get a new cookie")
	}
	if h.cookie.Value != first || h.store.Len() != 1 {
		t.Errorf("sessions = %d, cookie changed = %v", h.store.Len(), h.cookie.Value != first)
	}
}

func TestStaleCookieGetsNewSession(t *testing.T) {
	h := newHarness(t, Options{})
	h.cookie = &http.Cookie{Name: CookieName, Value: "gone"}
	h.do(http.MethodGet, "/api/frame", nil)
	if h.cookie.Value == "gone" {
		t.Error("unknown session id should be replaced")
	}
}

func TestSelectionAPI(t *testing.T) {
	h := newHarness(t, Options{})

	f := decodeFrame(t, h.do(http.MethodPost, "/api/selection/country/toggle?label=US", nil))
	if f["matched"].(float64) != 2 {
		t.Errorf("matched = %v, want 2", f["matched"])
	}
	if got := f["summaries"].(map[string]any)["country"]; got != "(US)" {
		t.Errorf("country caption = %v", got)
	}

	f = decodeFrame(t, h.do(http.MethodPost, "/api/selection/type/select-all", nil))
	if f["matched"].(float64) != 2 {
		t.Errorf("matched after select-all = %v", f["matched"])
	}

	f = decodeFrame(t, h.do(http.MethodPost, "/api/clear", nil))
	if f["matched"].(float64) != 4 {
		t.Errorf("matched after clear = %v", f["matched"])
	}

	f = decodeFrame(t, h.do(http.MethodPost, "/api/mode/cumulative", nil))
	if f["mode"] != "cumulative" {
		t.Errorf("mode = %v", f["mode"])
	}

	f = decodeFrame(t, h.do(http.MethodPost, "/api/resize?width=10", nil))
	if f["width"].(float64) != dashboard.MinWidth {
		t.Errorf("width = %v, want clamped", f["width"])
	}
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantCode   string
	}{
		{"unknown label", http.MethodPost, "/api/selection/country/toggle?label=Atlantis", 400, "UNKNOWN_LABEL"},
		{"unknown dimension", http.MethodPost, "/api/selection/planet/clear", 400, "INVALID_DIMENSION"},
		{"bad mode", http.MethodPost, "/api/mode/weekly", 400, "INVALID_MODE"},
		{"bad year", http.MethodPost, "/api/focus/soon", 400, "INVALID_YEAR"},
		{"year outside data", http.MethodPost, "/api/focus/1999", 400, "INVALID_YEAR"},
		{"bad width", http.MethodPost, "/api/resize?width=wide", 400, "INVALID_INPUT"},
		{"unknown chart", http.MethodGet, "/charts/pie.svg", 404, "NOT_FOUND"},
		{"hover outside data", http.MethodGet, "/api/hover/1999", 404, "NOT_FOUND"},
	}
	h := newHarness(t, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(tt.method, tt.target, nil)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := errorCode(t, rec); got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestFormPostRedirects(t *testing.T) {
	h := newHarness(t, Options{})
	rec := h.do(http.MethodPost, "/api/selection/country/toggle", url.Values{"label": {"UK"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}
	f := decodeFrame(t, h.do(http.MethodGet, "/api/frame", nil))
	if f["matched"].(float64) != 1 {
		t.Errorf("matched = %v, want 1", f["matched"])
	}

	rec = h.do(http.MethodPost, "/api/focus", url.Values{"year": {"2020"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("focus form status = %d", rec.Code)
	}
	if !strings.Contains(h.do(http.MethodGet, "/", nil).Body.String(), "Top operators") {
		t.Error("page should show the focus panel")
	}
}

func TestFocusAndHover(t *testing.T) {
	h := newHarness(t, Options{})
	f := decodeFrame(t, h.do(http.MethodPost, "/api/focus/2020", nil))
	focus, ok := f["focus"].(map[string]any)
	if !ok {
		t.Fatalf("frame has no focus: %v", f["focus"])
	}
	if focus["year"].(float64) != 2020 || focus["count"].(float64) != 2 {
		t.Errorf("focus = %v", focus)
	}

	rec := h.do(http.MethodGet, "/api/hover/2020", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("hover status = %d", rec.Code)
	}
	var tip struct {
		Yearly     int      `json:"yearly"`
		Cumulative int      `json:"cumulative"`
		Lines      []string `json:"lines"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tip); err != nil {
		t.Fatal(err)
	}
	if tip.Yearly != 2 || tip.Cumulative != 4 || len(tip.Lines) != 4 {
		t.Errorf("tooltip = %+v", tip)
	}
}

func TestFacets(t *testing.T) {
	h := newHarness(t, Options{})
	h.do(http.MethodPost, "/api/selection/operator/toggle?label=OneWeb", nil)

	rec := h.do(http.MethodGet, "/api/facets/agency?q=one", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Caption string `json:"caption"`
		Values  []struct {
			Label    string `json:"label"`
			Count    int    `json:"count"`
			Selected bool   `json:"selected"`
		} `json:"values"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Caption != "(OneWeb)" || len(resp.Values) != 1 {
		t.Fatalf("facets = %+v", resp)
	}
	if v := resp.Values[0]; v.Label != "OneWeb" || v.Count != 1 || !v.Selected {
		t.Errorf("value = %+v", v)
	}
}

func TestChartEndpoint(t *testing.T) {
	h := newHarness(t, Options{})
	rec := h.do(http.MethodGet, "/charts/status.svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("body is not SVG")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newHarness(t, Options{Metrics: prom.New(reg), Gatherer: reg})
	h.do(http.MethodGet, "/api/frame", nil)

	rec := h.do(http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `orbitdash_http_requests_total{method="GET",route="/api/frame",status="200"} 1`) {
		t.Errorf("metrics missing request counter:\n%s", rec.Body)
	}
}

func TestThousands(t *testing.T) {
	tests := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4200: "-4,200"}
	for in, want := range tests {
		if got := thousands(in); got != want {
			t.Errorf("thousands(%d) = %q, want %q", in, got, want)
		}
	}
}
