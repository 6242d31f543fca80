// Package aggregate reduces filtered records to the series and totals the
// charts draw.
//
// Every function is pure: it reads its input, allocates fresh output and
// tolerates empty input (returning zero-filled or empty results rather than
// failing).
//
//   - [YearlyCounts] and [Cumulative] feed the timeline. Yearly counts are
//     zero-filled over the full year domain so the x axis does not move when
//     filters change.
//   - [CohortByYear] feeds the cohort chart (payloads only, active vs
//     inactive).
//   - [Totals] feeds the status donut and its ratios.
//   - [TopK] ranks operators or drivers for the focus panel.
package aggregate
