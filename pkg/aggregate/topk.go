package aggregate

import (
	"sort"

	"github.com/matzehuels/orbitdash/pkg/dataset"
)

// Group is a label and the number of records carrying it.
type Group struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// KeyFunc extracts a grouping key from a record.
type KeyFunc func(dataset.Record) string

// ByOperator groups by operator label.
func ByOperator(r dataset.Record) string { return r.Operator }

// ByDriver groups by driver label.
func ByDriver(r dataset.Record) string { return r.Driver }

// TopK groups records by key and returns the k largest groups, largest
// first. Ties keep the order in which labels were first seen. k <= 0 returns
// every group.
func TopK(records []dataset.Record, key KeyFunc, k int) []Group {
	pos := make(map[string]int)
	var groups []Group
	for _, r := range records {
		label := key(r)
		i, ok := pos[label]
		if !ok {
			i = len(groups)
			pos[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Count++
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	if k > 0 && len(groups) > k {
		groups = groups[:k:k]
	}
	if groups == nil {
		groups = []Group{}
	}
	return groups
}
