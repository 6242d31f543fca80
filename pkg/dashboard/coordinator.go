package dashboard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orbitdash/pkg/aggregate"
	"github.com/matzehuels/orbitdash/pkg/dataset"
	"github.com/matzehuels/orbitdash/pkg/errors"
	"github.com/matzehuels/orbitdash/pkg/facet"
	"github.com/matzehuels/orbitdash/pkg/filter"
	"github.com/matzehuels/orbitdash/pkg/observability"
	"github.com/matzehuels/orbitdash/pkg/selection"
	"github.com/matzehuels/orbitdash/pkg/summary"
)

// DefaultTopK is the number of operators and drivers in the focus panel.
const DefaultTopK = 3

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. A nil logger means log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSinks registers sinks, drawn in the given order.
func WithSinks(sinks ...Sink) Option {
	return func(c *Coordinator) { c.sinks = append(c.sinks, sinks...) }
}

// WithTopK sets how many groups the focus panel lists.
func WithTopK(k int) Option {
	return func(c *Coordinator) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithDefaults sets the selection restored by ClearAll and applied at start.
func WithDefaults(d map[facet.Dimension][]string) Option {
	return func(c *Coordinator) { c.defaults = d }
}

// WithMode sets the initial timeline mode.
func WithMode(m Mode) Option {
	return func(c *Coordinator) { c.mode = m }
}

// WithWidth sets the initial chart width, clamped to [MinWidth, MaxWidth].
func WithWidth(w int) Option {
	return func(c *Coordinator) { c.width = ClampWidth(w) }
}

// WithFetcher sets the summary source for the focus panel.
func WithFetcher(f summary.Fetcher) Option {
	return func(c *Coordinator) {
		if f != nil {
			c.fetcher = f
		}
	}
}

// Coordinator runs render cycles in response to state changes.
// All methods are safe for concurrent use.
type Coordinator struct {
	ds       *dataset.Dataset
	idx      *facet.Index
	sel      *selection.State
	logger   *log.Logger
	fetcher  summary.Fetcher
	topK     int
	defaults map[facet.Dimension][]string

	ctx     context.Context
	cancel  context.CancelFunc
	unsub   func()
	fetches sync.WaitGroup

	// mu serializes cycles and guards the fields below. Sinks run with mu
	// held and must not call back into the coordinator.
	mu      sync.Mutex
	sinks   []Sink
	mode    Mode
	width   int
	gen     uint64
	focused bool
	focus   int
	ticket  uint64
	panel   summary.Summary

	phase atomic.Int32
	frame atomic.Pointer[Frame]
}

// New creates a coordinator over ds. idx must be built from ds.Records.
// It returns an error if the default selection names unknown labels.
// No cycle runs until the first state change or Refresh.
func New(ds *dataset.Dataset, idx *facet.Index, opts ...Option) (*Coordinator, error) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		ds:      ds,
		idx:     idx,
		sel:     selection.New(idx),
		logger:  log.Default(),
		fetcher: summary.Disabled{},
		topK:    DefaultTopK,
		width:   DefaultWidth,
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.sel.Reset(c.defaults); err != nil {
		cancel()
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "default selection")
	}
	c.unsub = c.sel.Subscribe(func(ch selection.Change) {
		c.cycle(ch.String())
	})
	return c, nil
}

// Close stops pending summary fetches and detaches from the selection.
func (c *Coordinator) Close() {
	c.cancel()
	c.unsub()
	c.fetches.Wait()
}

// AddSink registers a sink after construction. It takes effect from the
// next cycle.
func (c *Coordinator) AddSink(s Sink) {
	c.mu.Lock()
	c.sinks = append(c.sinks, s)
	c.mu.Unlock()
}

// Dataset returns the underlying dataset.
func (c *Coordinator) Dataset() *dataset.Dataset { return c.ds }

// Index returns the facet index.
func (c *Coordinator) Index() *facet.Index { return c.idx }

// Selection returns a snapshot of the current selection.
func (c *Coordinator) Selection() selection.Snapshot { return c.sel.Snapshot() }

// Caption returns the dropdown caption of dim.
func (c *Coordinator) Caption(dim facet.Dimension) string { return c.sel.Summary(dim) }

// Frame returns the most recent frame, or nil before the first cycle.
func (c *Coordinator) Frame() *Frame { return c.frame.Load() }

// Phase reports whether a cycle is running.
func (c *Coordinator) Phase() Phase { return Phase(c.phase.Load()) }

// Toggle flips label in dim's selection and re-renders.
func (c *Coordinator) Toggle(dim facet.Dimension, label string) error {
	return c.sel.Toggle(dim, label)
}

// Clear makes dim unrestricted and re-renders.
func (c *Coordinator) Clear(dim facet.Dimension) error {
	return c.sel.Clear(dim)
}

// SelectAll selects every label of dim and re-renders once.
func (c *Coordinator) SelectAll(dim facet.Dimension) error {
	return c.sel.SelectAll(dim)
}

// SetSelection replaces dim's selection and re-renders once.
func (c *Coordinator) SetSelection(dim facet.Dimension, labels []string) error {
	return c.sel.Set(dim, labels)
}

// ClearAll restores the default selection, drops focus and re-renders once.
func (c *Coordinator) ClearAll() error {
	c.mu.Lock()
	c.dropFocusLocked()
	c.mu.Unlock()
	return c.sel.Reset(c.defaults)
}

// SetMode switches the timeline mode and re-renders.
func (c *Coordinator) SetMode(m Mode) error {
	if m != Yearly && m != Cumulative {
		return errors.New(errors.ErrCodeInvalidMode, "unknown mode %d", int(m))
	}
	c.mu.Lock()
	c.mode = m
	c.mu.Unlock()
	c.cycle("mode " + m.String())
	return nil
}

// Resize sets the chart width, clamped to [MinWidth, MaxWidth], and
// re-renders.
func (c *Coordinator) Resize(width int) {
	c.mu.Lock()
	c.width = ClampWidth(width)
	c.mu.Unlock()
	c.cycle("resize")
}

// Refresh re-renders without changing state. Use it for the initial draw.
func (c *Coordinator) Refresh() {
	c.cycle("refresh")
}

// ToggleFocus focuses year, or clears focus if year is already focused.
// The year must be in the dataset's year domain.
func (c *Coordinator) ToggleFocus(year int) error {
	if !c.ds.HasYear(year) {
		return errors.New(errors.ErrCodeInvalidYear, "year %d is not in the dataset", year)
	}

	c.mu.Lock()
	if c.focused && c.focus == year {
		c.dropFocusLocked()
		c.mu.Unlock()
		c.cycle(fmt.Sprintf("unfocus %d", year))
		return nil
	}
	c.focused = true
	c.focus = year
	c.ticket++
	ticket := c.ticket
	c.panel = summary.Loading(year)
	c.mu.Unlock()

	c.cycle(fmt.Sprintf("focus %d", year))
	c.fetchSummary(year, ticket)
	return nil
}

// Focus returns the focused year, if any.
func (c *Coordinator) Focus() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focus, c.focused
}

// Hover returns the tooltip for year under the current frame.
func (c *Coordinator) Hover(year int) (Tooltip, bool) {
	f := c.Frame()
	if f == nil {
		return Tooltip{}, false
	}
	return f.tooltip(year)
}

// Wait blocks until every in-flight summary fetch has settled.
func (c *Coordinator) Wait() {
	c.fetches.Wait()
}

func (c *Coordinator) dropFocusLocked() {
	c.focused = false
	c.focus = 0
	c.ticket++
	c.panel = summary.Summary{}
}

// cycle runs one filter → aggregate → draw pass.
func (c *Coordinator) cycle(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.phase.Store(int32(Rendering))
	defer c.phase.Store(int32(Idle))

	c.gen++
	gen := c.gen
	ctx := c.ctx
	start := time.Now()
	hooks := observability.Cycles()
	hooks.OnCycleStart(ctx, gen, reason)

	frame := c.buildLocked(gen, reason)
	c.frame.Store(frame)

	var firstErr error
	for i, s := range c.sinks {
		if err := s.Draw(ctx, frame); err != nil {
			c.logger.Error("sink draw failed", "sink", i, "generation", gen, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	d := time.Since(start)
	hooks.OnCycleComplete(ctx, gen, reason, frame.Matched, d, firstErr)
	c.logger.Debug("render cycle",
		"generation", gen,
		"reason", reason,
		"rows", frame.Matched,
		"duration", d)
}

func (c *Coordinator) buildLocked(gen uint64, reason string) *Frame {
	snap := c.sel.Snapshot()
	filtered := filter.Apply(c.ds.Records, snap)
	yearly := aggregate.YearlyCounts(filtered, c.ds.Years)

	summaries := make(map[facet.Dimension]string, 3)
	for _, d := range facet.Dimensions() {
		summaries[d] = selection.Caption(snap.Values(d))
	}

	f := &Frame{
		Generation: gen,
		Reason:     reason,
		Mode:       c.mode,
		Width:      c.width,
		Years:      c.ds.Years,
		Selection:  snap,
		Summaries:  summaries,
		Total:      c.ds.Len(),
		Matched:    len(filtered),
		Yearly:     yearly,
		Cumulative: aggregate.Cumulative(yearly),
		Cohort:     aggregate.CohortByYear(filtered),
		Totals:     aggregate.Totals(filtered),
		Empty:      len(filtered) == 0,
		records:    filtered,
	}
	if c.focused {
		inYear := filter.ForYear(filtered, c.focus)
		f.Focus = &FocusPanel{
			Year:      c.focus,
			Count:     len(inYear),
			Operators: aggregate.TopK(inYear, aggregate.ByOperator, c.topK),
			Drivers:   aggregate.TopK(inYear, aggregate.ByDriver, c.topK),
			Summary:   c.panel,
		}
	}
	return f
}

// fetchSummary loads the panel summary in the background. The result is
// applied only if (year, ticket) still identifies the current focus.
func (c *Coordinator) fetchSummary(year int, ticket uint64) {
	c.fetches.Add(1)
	go func() {
		defer c.fetches.Done()

		s, err := c.fetcher.Fetch(c.ctx, year)
		if err != nil {
			s = summary.Failed(year)
		}

		c.mu.Lock()
		stale := !c.focused || c.focus != year || c.ticket != ticket
		observability.Cycles().OnSummary(c.ctx, year, stale, err)
		if stale {
			c.mu.Unlock()
			c.logger.Debug("discarding stale summary", "year", year, "ticket", ticket)
			return
		}
		c.panel = s
		if f := c.frame.Load(); f != nil && f.Focus != nil && f.Focus.Year == year {
			c.frame.Store(f.withSummary(s))
		}
		for _, sink := range c.sinks {
			ps, ok := sink.(PanelSink)
			if !ok {
				continue
			}
			if err := ps.DrawSummary(c.ctx, year, s); err != nil {
				c.logger.Error("panel draw failed", "year", year, "err", err)
			}
		}
		c.mu.Unlock()

		if err != nil {
			c.logger.Warn("summary unavailable", "year", year, "err", err)
		}
	}()
}
