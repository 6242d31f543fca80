package chart

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/summary"
)

// Canvas is a dashboard sink that keeps the latest SVG of every chart.
// It is safe for concurrent use.
type Canvas struct {
	logger *log.Logger
	build  func(*dashboard.Frame) map[string]Renderable

	mu      sync.RWMutex
	svgs    map[string][]byte
	frame   *dashboard.Frame
	summary summary.Summary
}

// NewCanvas returns an empty canvas. A nil logger means log.Default().
func NewCanvas(logger *log.Logger) *Canvas {
	if logger == nil {
		logger = log.Default()
	}
	return &Canvas{logger: logger, build: Build, svgs: make(map[string][]byte, 3)}
}

// Draw re-renders every chart from f and replaces the stored output. The
// output of the previous frame is replaced even when a chart fails; that
// chart shows the "No data" placeholder and the error is returned after.
func (c *Canvas) Draw(ctx context.Context, f *dashboard.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	svgs, err := renderCharts(c.build(f), f.Width, SVG)
	c.mu.Lock()
	c.svgs = svgs
	c.frame = f
	if f.Focus != nil {
		c.summary = f.Focus.Summary
	} else {
		c.summary = summary.Summary{}
	}
	c.mu.Unlock()
	c.logger.Debug("canvas drawn", "generation", f.Generation, "charts", len(svgs))
	return err
}

// DrawSummary records the focus panel summary without touching charts.
func (c *Canvas) DrawSummary(_ context.Context, year int, s summary.Summary) error {
	c.mu.Lock()
	c.summary = s
	c.mu.Unlock()
	c.logger.Debug("canvas summary", "year", year, "state", s.State)
	return nil
}

// SVG returns the latest rendering of the named chart.
func (c *Canvas) SVG(name string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.svgs[name]
	return b, ok
}

// Frame returns the last drawn frame, or nil.
func (c *Canvas) Frame() *dashboard.Frame {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frame
}

// Summary returns the latest focus panel summary.
func (c *Canvas) Summary() summary.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.summary
}

var (
	_ dashboard.Sink      = (*Canvas)(nil)
	_ dashboard.PanelSink = (*Canvas)(nil)
)
