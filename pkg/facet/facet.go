// Package facet indexes the distinct labels of each filterable dimension.
//
// An [Index] is built once from the full, unfiltered dataset and never
// changes afterwards: option lists do not shrink when filters narrow the
// data, so a user can always widen a selection again.
package facet

import (
	"sort"
	"strings"

	"github.com/matzehuels/orbitdash/pkg/dataset"
	"github.com/matzehuels/orbitdash/pkg/errors"
)

// Dimension is a filterable attribute of a record.
type Dimension int

const (
	Country Dimension = iota
	Operator
	ObjectType
)

var dimensionNames = [...]string{
	Country:    "country",
	Operator:   "operator",
	ObjectType: "object_type",
}

// String returns the canonical dimension name.
func (d Dimension) String() string {
	if !d.Valid() {
		return "unknown"
	}
	return dimensionNames[d]
}

// Title returns a display name.
func (d Dimension) Title() string {
	switch d {
	case Country:
		return "Country"
	case Operator:
		return "Operator"
	case ObjectType:
		return "Object type"
	}
	return "Unknown"
}

// Valid reports whether d is one of the known dimensions.
func (d Dimension) Valid() bool {
	return d >= Country && d <= ObjectType
}

// Value returns the label of rec for this dimension.
func (d Dimension) Value(rec dataset.Record) string {
	switch d {
	case Country:
		return rec.Country
	case Operator:
		return rec.Operator
	case ObjectType:
		return rec.ObjectType.String()
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler so dimensions can key JSON maps.
func (d Dimension) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dimension) UnmarshalText(b []byte) error {
	v, err := ParseDimension(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Dimensions returns every dimension in listing order.
func Dimensions() []Dimension {
	return []Dimension{Country, Operator, ObjectType}
}

// ParseDimension parses a dimension name. "agency" is accepted for operator
// and "type" for object_type.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "country":
		return Country, nil
	case "operator", "agency":
		return Operator, nil
	case "object_type", "type", "object-type":
		return ObjectType, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidDimension, "unknown dimension %q (want country, operator or type)", s)
}

// Index holds the sorted distinct labels of each dimension, plus how many
// records carry each label.
type Index struct {
	values [3][]string
	counts [3]map[string]int
}

// Build indexes records. The result is deterministic for a given input set.
func Build(records []dataset.Record) *Index {
	idx := &Index{}
	for _, d := range Dimensions() {
		idx.counts[d] = make(map[string]int)
	}
	for _, rec := range records {
		for _, d := range Dimensions() {
			idx.counts[d][d.Value(rec)]++
		}
	}
	for _, d := range Dimensions() {
		vals := make([]string, 0, len(idx.counts[d]))
		for v := range idx.counts[d] {
			vals = append(vals, v)
		}
		sort.Strings(vals)
		idx.values[d] = vals
	}
	return idx
}

// Values returns the sorted labels of dim. The returned slice is a copy.
func (x *Index) Values(dim Dimension) []string {
	if !dim.Valid() {
		return nil
	}
	return append([]string(nil), x.values[dim]...)
}

// Contains reports whether label is a known value of dim.
func (x *Index) Contains(dim Dimension, label string) bool {
	if !dim.Valid() {
		return false
	}
	_, ok := x.counts[dim][label]
	return ok
}

// Count returns how many records in the full dataset carry label.
func (x *Index) Count(dim Dimension, label string) int {
	if !dim.Valid() {
		return 0
	}
	return x.counts[dim][label]
}

// Len returns the number of distinct labels of dim.
func (x *Index) Len(dim Dimension) int {
	if !dim.Valid() {
		return 0
	}
	return len(x.values[dim])
}

// Search returns the labels of dim containing query, case-insensitively, in
// sorted order. An empty query returns every label.
func (x *Index) Search(dim Dimension, query string) []string {
	if !dim.Valid() {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return x.Values(dim)
	}
	var out []string
	for _, v := range x.values[dim] {
		if strings.Contains(strings.ToLower(v), q) {
			out = append(out, v)
		}
	}
	return out
}
