package dataset

import (
	"context"
	"sort"
)

// Dataset is the loaded, normalized dataset. It is immutable after Open.
type Dataset struct {
	Path    string
	Records []Record
	// Years is the sorted, distinct set of years in Records.
	Years []int
	// Dropped counts raw rows rejected by normalization.
	Dropped int
}

// Open loads the CSV at path and normalizes it. A nil normalizer uses the
// built-in catalogs.
func Open(ctx context.Context, path string, cols Columns, n *Normalizer) (*Dataset, error) {
	rows, err := LoadFile(ctx, path, cols)
	if err != nil {
		return nil, err
	}
	ds := FromRows(rows, n)
	ds.Path = path
	return ds, nil
}

// FromRows normalizes already loaded rows.
func FromRows(rows []RawRow, n *Normalizer) *Dataset {
	records := n.Normalize(rows)
	return &Dataset{
		Records: records,
		Years:   YearDomain(records),
		Dropped: len(rows) - len(records),
	}
}

// New wraps normalized records.
func New(records []Record) *Dataset {
	return &Dataset{Records: records, Years: YearDomain(records)}
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// HasYear reports whether year is in the domain.
func (d *Dataset) HasYear(year int) bool {
	i := sort.SearchInts(d.Years, year)
	return i < len(d.Years) && d.Years[i] == year
}

// YearDomain returns the sorted distinct years of records.
func YearDomain(records []Record) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0, 64)
	for _, r := range records {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	sort.Ints(years)
	return years
}
