// Package dataset loads the orbital-object dataset and normalizes it into
// canonical [Record] values.
//
// # Overview
//
// The package has two halves:
//
//   - The loader ([Load], [LoadFile]) reads a CSV resource with a header row
//     and produces loosely typed [RawRow] values. Cells are auto-typed: numeric
//     text becomes float64, empty cells become nil, everything else stays a
//     string.
//   - The [Normalizer] maps raw rows into immutable [Record] values with a
//     fixed shape: year, country, object type, lifecycle status, name, and two
//     labels derived from the name (operator and driver).
//
// [Open] bundles both halves and computes the year domain of the full dataset.
//
// # Data Cleaning
//
// Normalization never fails. Rows whose year is not a finite integer are
// dropped; every other missing or unexpected field is replaced by a default
// category ("Unknown" country, [ObjectUnknown], [StatusOther]).
//
// # Classification
//
// Operator and driver labels come from two separate ordered [RuleSet]
// catalogs, [OperatorRules] and [DriverRules]. Rules are evaluated in order
// and the first match wins, so the order of the catalog is part of its
// meaning. Both catalogs can be replaced through configuration.
package dataset
