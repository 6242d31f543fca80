package chart

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/orbitdash/pkg/aggregate"
)

// Chart names, used as Canvas keys and file stems.
const (
	NameTimeline = "timeline"
	NameStatus   = "status"
	NameCohort   = "cohort"
)

// Names lists the charts in drawing order.
func Names() []string { return []string{NameTimeline, NameStatus, NameCohort} }

var (
	colorActive     = drawing.ColorFromHex("7aa7ff")
	colorInactive   = drawing.ColorFromHex("b3f0ff")
	colorDebris     = drawing.ColorFromHex("ffb36b")
	colorRocketBody = drawing.ColorFromHex("ffd86b")
	colorMuted      = drawing.ColorFromHex("9aa0a6")
	colorFocus      = drawing.ColorFromHex("1f2d3d")
)

// sliceColors maps donut labels to their palette entry.
var sliceColors = map[string]drawing.Color{
	aggregate.SliceActive:       colorActive,
	aggregate.SliceInactive:     colorInactive,
	aggregate.SliceDebris:       colorDebris,
	aggregate.SliceRocketBodies: colorRocketBody,
}

// Height is the fixed height of every chart, in pixels.
const Height = 340
