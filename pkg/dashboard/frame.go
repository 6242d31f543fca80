package dashboard

import (
	"fmt"
	"strings"

	"github.com/matzehuels/orbitdash/pkg/aggregate"
	"github.com/matzehuels/orbitdash/pkg/dataset"
	"github.com/matzehuels/orbitdash/pkg/errors"
	"github.com/matzehuels/orbitdash/pkg/facet"
	"github.com/matzehuels/orbitdash/pkg/selection"
	"github.com/matzehuels/orbitdash/pkg/summary"
)

// Mode selects how the timeline is drawn.
type Mode int

const (
	Yearly Mode = iota
	Cumulative
)

func (m Mode) String() string {
	if m == Cumulative {
		return "cumulative"
	}
	return "yearly"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ParseMode parses "yearly" or "cumulative".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yearly", "year", "per-year":
		return Yearly, nil
	case "cumulative", "cum", "total":
		return Cumulative, nil
	}
	return Yearly, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q (want yearly or cumulative)", s)
}

// Phase reports whether a cycle is in progress.
type Phase int32

const (
	Idle Phase = iota
	Rendering
)

func (p Phase) String() string {
	if p == Rendering {
		return "rendering"
	}
	return "idle"
}

// Width bounds for charts, in pixels.
const (
	MinWidth     = 320
	MaxWidth     = 980
	DefaultWidth = MaxWidth
)

// ClampWidth bounds w to [MinWidth, MaxWidth].
func ClampWidth(w int) int {
	return min(max(w, MinWidth), MaxWidth)
}

// FocusPanel is the detail panel for the focused year.
type FocusPanel struct {
	Year      int               `json:"year"`
	Count     int               `json:"count"`
	Operators []aggregate.Group `json:"operators"`
	Drivers   []aggregate.Group `json:"drivers"`
	Summary   summary.Summary   `json:"summary"`
}

// Frame is the immutable output of one render cycle.
type Frame struct {
	Generation uint64                     `json:"generation"`
	Reason     string                     `json:"reason"`
	Mode       Mode                       `json:"mode"`
	Width      int                        `json:"width"`
	Years      []int                      `json:"years"`
	Selection  selection.Snapshot         `json:"selection"`
	Summaries  map[facet.Dimension]string `json:"summaries"`
	Total      int                        `json:"total"`
	Matched    int                        `json:"matched"`
	Yearly     aggregate.Series           `json:"yearly"`
	Cumulative aggregate.Series           `json:"cumulative"`
	Cohort     []aggregate.CohortPoint    `json:"cohort"`
	Totals     aggregate.StatusTotals     `json:"totals"`
	Focus      *FocusPanel                `json:"focus,omitempty"`
	// Empty is true when the selection matched no records.
	Empty bool `json:"empty"`

	records []dataset.Record
}

// Series returns the timeline series for the frame's mode.
func (f *Frame) Series() aggregate.Series {
	if f.Mode == Cumulative {
		return f.Cumulative
	}
	return f.Yearly
}

// Records returns the filtered records behind the frame. Callers must not
// modify them.
func (f *Frame) Records() []dataset.Record { return f.records }

// FocusYear returns the focused year, if any.
func (f *Frame) FocusYear() (int, bool) {
	if f.Focus == nil {
		return 0, false
	}
	return f.Focus.Year, true
}

// withSummary returns a copy of f whose focus panel carries s.
func (f *Frame) withSummary(s summary.Summary) *Frame {
	nf := *f
	fp := *f.Focus
	fp.Summary = s
	nf.Focus = &fp
	return &nf
}

// Tooltip is the hover text for one year.
type Tooltip struct {
	Year        int              `json:"year"`
	Yearly      int              `json:"yearly"`
	Cumulative  int              `json:"cumulative"`
	Active      int              `json:"active"`
	Inactive    int              `json:"inactive"`
	TopOperator *aggregate.Group `json:"top_operator,omitempty"`
}

// Lines renders the tooltip as display lines.
func (t Tooltip) Lines() []string {
	top := "Top operator: —"
	if t.TopOperator != nil {
		top = fmt.Sprintf("Top operator: %s (%d)", t.TopOperator.Label, t.TopOperator.Count)
	}
	return []string{
		fmt.Sprintf("%d", t.Year),
		fmt.Sprintf("Launched %d • Total %d", t.Yearly, t.Cumulative),
		fmt.Sprintf("Active %d • Inactive %d", t.Active, t.Inactive),
		top,
	}
}

// tooltip builds the hover text for year from f.
func (f *Frame) tooltip(year int) (Tooltip, bool) {
	y, ok := f.Yearly.At(year)
	if !ok {
		return Tooltip{}, false
	}
	c, _ := f.Cumulative.At(year)
	t := Tooltip{Year: year, Yearly: y.Count, Cumulative: c.Count}
	for _, p := range f.Cohort {
		if p.Year == year {
			t.Active, t.Inactive = p.Active, p.Inactive
			break
		}
	}
	if top := aggregate.TopK(aggregate.PayloadsForYear(f.records, year), aggregate.ByOperator, 1); len(top) > 0 {
		t.TopOperator = &top[0]
	}
	return t, true
}
