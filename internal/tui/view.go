package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/orbitdash/pkg/aggregate"
	"github.com/matzehuels/orbitdash/pkg/summary"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorBlue  = lipgloss.Color("75")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tabStyle      = lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
	tabActive     = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(colorDim).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	normalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	dimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	labelStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	numberStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	barStyle      = lipgloss.NewStyle().Foreground(colorBlue)
	focusBarStyle = lipgloss.NewStyle().Foreground(colorAmber)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// timelineRows is the number of years shown around the year cursor.
const timelineRows = 12

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Satellites in low Earth orbit"))
	b.WriteString("\n\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n")
	b.WriteString(m.viewFacet())
	b.WriteString("\n")

	if m.frame == nil {
		b.WriteString(dimStyle.Render("loading…"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.viewKPIs())
		b.WriteString("\n")
		b.WriteString(m.viewTimeline())
		if m.frame.Focus != nil {
			b.WriteString("\n")
			b.WriteString(m.viewFocus())
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) viewTabs() string {
	tabs := make([]string, len(m.dims))
	for i, d := range m.dims {
		label := fmt.Sprintf("%s %s", d.Title(), m.dash.Caption(d))
		if i == m.facet {
			tabs[i] = tabActive.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewFacet() string {
	var b strings.Builder
	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	} else if q := m.query[m.facet]; q != "" {
		b.WriteString(dimStyle.Render("filter: " + q))
		b.WriteString("\n")
	}

	opts := m.options()
	if len(opts) == 0 {
		b.WriteString(dimStyle.Render("  no matches"))
		b.WriteString("\n")
		return b.String()
	}

	var sel func(string) bool
	if m.frame != nil {
		snap := m.frame.Selection
		sel = func(label string) bool { return snap.Has(m.dim(), label) }
	} else {
		sel = func(string) bool { return false }
	}

	idx := m.dash.Index()
	start := m.offset[m.facet]
	end := min(start+m.listHeight, len(opts))
	for i := start; i < end; i++ {
		label := opts[i]
		cursor := "  "
		if i == m.cursor[m.facet] {
			cursor = "▸ "
		}
		box := "[ ]"
		style := normalStyle
		if sel(label) {
			box = "[x]"
			style = selectedStyle
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", cursor, box, style.Render(label),
			dimStyle.Render(fmt.Sprintf("(%d)", idx.Count(m.dim(), label))))
	}
	if len(opts) > m.listHeight {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d–%d of %d", start+1, end, len(opts))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewKPIs() string {
	f := m.frame
	t := f.Totals
	debris := aggregate.FormatPercent(t.DebrisPerActive())
	inactive := aggregate.FormatPercent(t.InactivePerActive())

	lines := []string{
		labelStyle.Render("Matched") + numberStyle.Render(fmt.Sprintf("%d", f.Matched)) +
			dimStyle.Render(fmt.Sprintf(" of %d", f.Total)),
		labelStyle.Render("Status") + fmt.Sprintf("active %d • inactive %d • debris %d • rocket bodies %d",
			t.Active, t.Inactive, t.Debris, t.RocketBodies),
		labelStyle.Render("Ratios") + fmt.Sprintf("debris/active %s • inactive/active %s", debris, inactive),
		labelStyle.Render("Mode") + f.Mode.String(),
	}
	return strings.Join(lines, "\n") + "\n"
}

// viewTimeline draws the series as horizontal bars, one row per year,
// windowed around the year cursor.
func (m Model) viewTimeline() string {
	f := m.frame
	if f.Empty || len(f.Years) == 0 {
		return dimStyle.Render("No data") + "\n"
	}
	series := f.Series()
	top := max(series.Max(), 1)
	barMax := max(m.width-24, 10)
	focus, focused := f.FocusYear()

	cur := min(m.yearIdx, len(f.Years)-1)
	start := max(cur-timelineRows/2, 0)
	end := min(start+timelineRows, len(f.Years))
	start = max(end-timelineRows, 0)

	var b strings.Builder
	for i := start; i < end; i++ {
		year := f.Years[i]
		p, _ := series.At(year)
		n := p.Count * barMax / top
		if p.Count > 0 && n == 0 {
			n = 1
		}
		cursor := "  "
		if i == cur {
			cursor = "▸ "
		}
		style := barStyle
		if focused && year == focus {
			style = focusBarStyle
		}
		fmt.Fprintf(&b, "%s%d %s %s\n", cursor, year, style.Render(strings.Repeat("█", n)), numberStyle.Render(fmt.Sprint(p.Count)))
	}

	if tip, ok := m.dash.Hover(f.Years[cur]); ok {
		b.WriteString(dimStyle.Render(strings.Join(tip.Lines()[1:], "  ·  ")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewFocus() string {
	p := m.frame.Focus
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d • %d objects", p.Year, p.Count)))
	b.WriteString("\n")
	b.WriteString(groupLine("Operators", p.Operators))
	b.WriteString(groupLine("Drivers", p.Drivers))

	s := p.Summary
	title := s.Title
	if title == "" {
		title = summary.Title(p.Year)
	}
	b.WriteString("\n")
	b.WriteString(normalStyle.Bold(true).Render(title))
	b.WriteString("\n")
	text := s.Text()
	if s.State != summary.StateReady {
		text = dimStyle.Render(text)
	}
	b.WriteString(lipgloss.NewStyle().Width(max(m.width-6, 20)).Render(text))

	return panelStyle.Render(b.String()) + "\n"
}

func groupLine(label string, groups []aggregate.Group) string {
	if len(groups) == 0 {
		return labelStyle.Render(label) + dimStyle.Render("—") + "\n"
	}
	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = fmt.Sprintf("%s (%d)", g.Label, g.Count)
	}
	return labelStyle.Render(label) + strings.Join(parts, ", ") + "\n"
}

