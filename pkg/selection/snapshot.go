package selection

import (
	"encoding/json"

	"github.com/matzehuels/orbitdash/pkg/dataset"
	"github.com/matzehuels/orbitdash/pkg/facet"
)

// Snapshot is a read-only copy of a [State]. The zero value is unrestricted.
type Snapshot struct {
	sets map[facet.Dimension]set
}

// NewSnapshot builds a snapshot directly from labels, without validation.
// It is meant for tests and one-shot rendering.
func NewSnapshot(labels map[facet.Dimension][]string) Snapshot {
	snap := Snapshot{sets: make(map[facet.Dimension]set, len(labels))}
	for d, ls := range labels {
		if len(ls) == 0 {
			continue
		}
		m := make(set, len(ls))
		for _, l := range ls {
			m[l] = struct{}{}
		}
		snap.sets[d] = m
	}
	return snap
}

// IsRestricted reports whether dim has a non-empty selection.
func (s Snapshot) IsRestricted(dim facet.Dimension) bool {
	return len(s.sets[dim]) > 0
}

// Unrestricted reports whether no dimension is restricted.
func (s Snapshot) Unrestricted() bool {
	for _, m := range s.sets {
		if len(m) > 0 {
			return false
		}
	}
	return true
}

// Has reports whether label is selected in dim.
func (s Snapshot) Has(dim facet.Dimension, label string) bool {
	_, ok := s.sets[dim][label]
	return ok
}

// Values returns dim's selected labels, sorted.
func (s Snapshot) Values(dim facet.Dimension) []string {
	return sortedKeys(s.sets[dim])
}

// Matches reports whether rec satisfies the selection: for every restricted
// dimension, the record's label must be one of the selected labels.
func (s Snapshot) Matches(rec dataset.Record) bool {
	for d, m := range s.sets {
		if len(m) == 0 {
			continue
		}
		if _, ok := m[d.Value(rec)]; !ok {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the snapshot as {"country": [...], ...} with every
// dimension present.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[facet.Dimension][]string, 3)
	for _, d := range facet.Dimensions() {
		out[d] = s.Values(d)
	}
	return json.Marshal(out)
}
