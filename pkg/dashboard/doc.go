// Package dashboard coordinates state changes and re-rendering.
//
// # Overview
//
// A [Coordinator] owns the selection state, the display mode, the chart
// width and the focus year. Every state change runs exactly one synchronous
// render cycle:
//
//  1. filter the dataset with the current selection
//  2. compute every aggregate into an immutable [Frame]
//  3. hand the frame to each [Sink] in registration order
//
// Cycles are serialized, so concurrent callers observe last-write-wins. A
// sink that fails is logged and skipped; it never stops the cycle or later
// cycles.
//
// # Focus
//
// Toggling focus on a year adds a [FocusPanel] to subsequent frames with the
// top operators and drivers for that year under the current filters, and
// starts an asynchronous summary fetch. Fetches are tagged with the focus
// year and a ticket; a result arriving after focus moved on is discarded.
// A matching result redraws only the panel region through [PanelSink].
package dashboard
