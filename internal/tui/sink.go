package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/summary"
)

// FrameMsg carries a new frame into the program.
type FrameMsg struct{ Frame *dashboard.Frame }

// SummaryMsg reports that the focus panel summary arrived.
type SummaryMsg struct {
	Year    int
	Summary summary.Summary
}

// Sink forwards coordinator output to a running program. Messages are sent
// from a new goroutine because cycles triggered by Update would otherwise
// block on the program's own message loop.
type Sink struct {
	send func(tea.Msg)
}

// NewSink returns a sink sending to p.
func NewSink(p *tea.Program) *Sink {
	return &Sink{send: p.Send}
}

// Draw implements dashboard.Sink.
func (s *Sink) Draw(_ context.Context, f *dashboard.Frame) error {
	go s.send(FrameMsg{Frame: f})
	return nil
}

// DrawSummary implements dashboard.PanelSink.
func (s *Sink) DrawSummary(_ context.Context, year int, sum summary.Summary) error {
	go s.send(SummaryMsg{Year: year, Summary: sum})
	return nil
}
