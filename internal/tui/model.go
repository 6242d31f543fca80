// Package tui is the interactive terminal view of the dashboard.
//
// The model drives a [dashboard.Coordinator]: key presses become
// coordinator commands, and the resulting frame is read back after each
// command. Frames and summaries produced outside Update (the initial draw,
// background summary fetches) arrive through [Sink] as messages.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/errors"
	"github.com/matzehuels/orbitdash/pkg/facet"
)

// cellWidth approximates the pixel width of one terminal column.
const cellWidth = 8

// Model is the bubbletea model.
type Model struct {
	dash *dashboard.Coordinator
	keys KeyMap
	help help.Model

	frame *dashboard.Frame
	dims  []facet.Dimension

	facet   int // index into dims
	cursor  [3]int
	offset  [3]int
	yearIdx int

	search    textinput.Model
	searching bool
	query     [3]string

	width, height int
	listHeight    int
	status        string
}

// New returns a model bound to d. The coordinator should have run at
// least one cycle; otherwise the first FrameMsg fills the view.
func New(d *dashboard.Coordinator) Model {
	ti := textinput.New()
	ti.Placeholder = "search"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := Model{
		dash:       d,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		frame:      d.Frame(),
		dims:       facet.Dimensions(),
		search:     ti,
		width:      100,
		height:     40,
		listHeight: 8,
	}
	if m.frame != nil && len(m.frame.Years) > 0 {
		m.yearIdx = len(m.frame.Years) - 1
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Frame returns the frame currently shown.
func (m Model) Frame() *dashboard.Frame { return m.frame }

// Status returns the last status or error line.
func (m Model) Status() string { return m.status }

func (m Model) dim() facet.Dimension { return m.dims[m.facet] }

// options returns the labels listed for the active facet.
func (m Model) options() []string {
	return m.dash.Index().Search(m.dim(), m.query[m.facet])
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		if m.frame == nil || msg.Frame.Generation >= m.frame.Generation {
			m.frame = msg.Frame
		}
		return m, nil

	case SummaryMsg:
		m.frame = m.dash.Frame()
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.listHeight = max(3, msg.Height/5)
		m.dash.Resize(msg.Width * cellWidth)
		m.frame = m.dash.Frame()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.query[m.facet] = ""
		m.cursor[m.facet], m.offset[m.facet] = 0, 0
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query[m.facet] = m.search.Value()
	m.cursor[m.facet], m.offset[m.facet] = 0, 0
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.NextFacet):
		step := 1
		if msg.String() == "shift+tab" {
			step = len(m.dims) - 1
		}
		m.facet = (m.facet + step) % len(m.dims)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevYear):
		m.moveYear(-1)
		return m, nil

	case key.Matches(msg, m.keys.NextYear):
		m.moveYear(1)
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.query[m.facet])
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Toggle):
		opts := m.options()
		if len(opts) == 0 {
			return m, nil
		}
		err = m.dash.Toggle(m.dim(), opts[m.cursor[m.facet]])

	case key.Matches(msg, m.keys.Clear):
		err = m.dash.Clear(m.dim())

	case key.Matches(msg, m.keys.SelectAll):
		err = m.dash.SelectAll(m.dim())

	case key.Matches(msg, m.keys.ClearAll):
		err = m.dash.ClearAll()

	case key.Matches(msg, m.keys.Mode):
		next := dashboard.Cumulative
		if m.frame != nil && m.frame.Mode == dashboard.Cumulative {
			next = dashboard.Yearly
		}
		err = m.dash.SetMode(next)

	case key.Matches(msg, m.keys.Focus):
		if m.frame == nil || len(m.frame.Years) == 0 {
			return m, nil
		}
		err = m.dash.ToggleFocus(m.frame.Years[m.yearIdx])

	default:
		return m, nil
	}

	if err != nil {
		m.status = errors.UserMessage(err)
	} else {
		m.status = ""
	}
	m.frame = m.dash.Frame()
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	n := len(m.options())
	if n == 0 {
		return
	}
	i := m.facet
	m.cursor[i] = min(max(m.cursor[i]+delta, 0), n-1)
	if m.cursor[i] < m.offset[i] {
		m.offset[i] = m.cursor[i]
	}
	if m.cursor[i] >= m.offset[i]+m.listHeight {
		m.offset[i] = m.cursor[i] - m.listHeight + 1
	}
}

func (m *Model) moveYear(delta int) {
	if m.frame == nil || len(m.frame.Years) == 0 {
		return
	}
	m.yearIdx = min(max(m.yearIdx+delta, 0), len(m.frame.Years)-1)
}
