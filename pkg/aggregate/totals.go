package aggregate

import (
	"fmt"

	"github.com/matzehuels/orbitdash/pkg/dataset"
)

// StatusTotals are the donut buckets over the filtered records.
type StatusTotals struct {
	Active       int `json:"active"`
	Inactive     int `json:"inactive"`
	Debris       int `json:"debris"`
	RocketBodies int `json:"rocket_bodies"`
}

// Slice is one donut segment.
type Slice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Slice labels, in drawing order.
const (
	SliceActive       = "Active"
	SliceInactive     = "Inactive"
	SliceDebris       = "Debris"
	SliceRocketBodies = "Rocket bodies"
)

// Totals counts status buckets. Active and inactive count payloads only;
// debris and rocket bodies match on either object type or status, so a record
// can land in more than one bucket.
func Totals(records []dataset.Record) StatusTotals {
	var t StatusTotals
	for _, r := range records {
		if r.IsPayload() {
			switch r.Status {
			case dataset.StatusActive:
				t.Active++
			case dataset.StatusInactive:
				t.Inactive++
			}
		}
		if r.ObjectType == dataset.ObjectDebris || r.Status == dataset.StatusDebris {
			t.Debris++
		}
		if r.ObjectType == dataset.ObjectRocketBody || r.Status == dataset.StatusRocketBody {
			t.RocketBodies++
		}
	}
	return t
}

// Total is the sum of the four buckets.
func (t StatusTotals) Total() int {
	return t.Active + t.Inactive + t.Debris + t.RocketBodies
}

// DebrisPerActive returns debris as a percentage of active payloads. ok is
// false when there are no active payloads.
func (t StatusTotals) DebrisPerActive() (pct float64, ok bool) {
	return percent(t.Debris, t.Active)
}

// InactivePerActive returns inactive payloads as a percentage of active ones.
func (t StatusTotals) InactivePerActive() (pct float64, ok bool) {
	return percent(t.Inactive, t.Active)
}

// Slices returns the non-empty buckets in fixed order.
func (t StatusTotals) Slices() []Slice {
	all := []Slice{
		{SliceActive, t.Active},
		{SliceInactive, t.Inactive},
		{SliceDebris, t.Debris},
		{SliceRocketBodies, t.RocketBodies},
	}
	out := make([]Slice, 0, len(all))
	for _, s := range all {
		if s.Value > 0 {
			out = append(out, s)
		}
	}
	return out
}

func percent(num, den int) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	return float64(num) / float64(den) * 100, true
}

// FormatPercent renders a ratio with one decimal, or an em dash when the
// ratio is undefined.
func FormatPercent(pct float64, ok bool) string {
	if !ok {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", pct)
}
