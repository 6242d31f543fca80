package aggregate

import (
	"sort"

	"github.com/matzehuels/orbitdash/pkg/dataset"
)

// CohortPoint splits one year's payloads by lifecycle status.
type CohortPoint struct {
	Year     int `json:"year"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Total    int `json:"total"`
}

// CohortByYear counts active and inactive payloads per launch year. Only
// years with at least one payload appear; payloads in any other status count
// toward neither bucket.
func CohortByYear(records []dataset.Record) []CohortPoint {
	byYear := make(map[int]*CohortPoint)
	for _, r := range records {
		if !r.IsPayload() {
			continue
		}
		p, ok := byYear[r.Year]
		if !ok {
			p = &CohortPoint{Year: r.Year}
			byYear[r.Year] = p
		}
		switch r.Status {
		case dataset.StatusActive:
			p.Active++
		case dataset.StatusInactive:
			p.Inactive++
		}
	}
	out := make([]CohortPoint, 0, len(byYear))
	for _, p := range byYear {
		p.Total = p.Active + p.Inactive
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// PayloadsForYear returns the payload records launched in year.
func PayloadsForYear(records []dataset.Record, year int) []dataset.Record {
	var out []dataset.Record
	for _, r := range records {
		if r.Year == year && r.IsPayload() {
			out = append(out, r)
		}
	}
	return out
}
