// Package chart draws dashboard frames as SVG or PNG charts.
//
// Three charts are built from a [dashboard.Frame]:
//
//   - [Timeline]: yearly counts as bars, or a cumulative line with dots
//   - [Status]: a donut of the status buckets with the total in the title
//   - [Cohort]: stacked payload bars per launch year, inactive below active,
//     with the focused year outlined
//
// A chart with nothing to show renders an explicit "No data" placeholder
// instead of failing, so callers always get a drawable image.
//
// [Canvas] is a [dashboard.Sink] that keeps the latest SVG of every chart in
// memory, for the HTTP view. [WriteFiles] writes chart files and the frame
// JSON to disk for the render command.
package chart
