package dashboard

import (
	"context"

	"github.com/matzehuels/orbitdash/pkg/summary"
)

// Sink draws frames. Each Draw replaces the sink's prior output wholesale.
type Sink interface {
	Draw(ctx context.Context, f *Frame) error
}

// PanelSink is implemented by sinks that can redraw only the focus panel
// summary, without touching charts.
type PanelSink interface {
	DrawSummary(ctx context.Context, year int, s summary.Summary) error
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(ctx context.Context, f *Frame) error

// Draw calls fn.
func (fn SinkFunc) Draw(ctx context.Context, f *Frame) error { return fn(ctx, f) }
