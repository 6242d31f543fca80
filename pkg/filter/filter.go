// Package filter applies a selection to records.
//
// Semantics are AND across dimensions and OR within a dimension: a record is
// kept when, for every restricted dimension, its label is one of the selected
// labels. Unrestricted dimensions impose no constraint.
//
// All functions preserve input order, never mutate their input, and return a
// freshly allocated slice.
package filter

import (
	"github.com/matzehuels/orbitdash/pkg/dataset"
	"github.com/matzehuels/orbitdash/pkg/selection"
)

// Predicate selects records.
type Predicate func(dataset.Record) bool

// Apply returns the records matching sel.
func Apply(records []dataset.Record, sel selection.Snapshot) []dataset.Record {
	if sel.Unrestricted() {
		return append(make([]dataset.Record, 0, len(records)), records...)
	}
	return Where(records, sel.Matches)
}

// Where returns the records for which keep returns true.
func Where(records []dataset.Record, keep Predicate) []dataset.Record {
	out := make([]dataset.Record, 0, len(records)/4)
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// ForYear returns the records launched in year.
func ForYear(records []dataset.Record, year int) []dataset.Record {
	return Where(records, func(r dataset.Record) bool { return r.Year == year })
}
