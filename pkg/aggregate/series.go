package aggregate

import "github.com/matzehuels/orbitdash/pkg/dataset"

// Point is one year bucket.
type Point struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Series is an ordered list of year buckets.
type Series []Point

// Total returns the sum of counts.
func (s Series) Total() int {
	n := 0
	for _, p := range s {
		n += p.Count
	}
	return n
}

// Max returns the largest count, or 0 for an empty series.
func (s Series) Max() int {
	m := 0
	for _, p := range s {
		if p.Count > m {
			m = p.Count
		}
	}
	return m
}

// At returns the point for year.
func (s Series) At(year int) (Point, bool) {
	for _, p := range s {
		if p.Year == year {
			return p, true
		}
	}
	return Point{}, false
}

// YearlyCounts counts records per year over domain, emitting a zero for
// years without records. Records outside the domain are ignored.
func YearlyCounts(records []dataset.Record, domain []int) Series {
	counts := make(map[int]int, len(domain))
	for _, r := range records {
		counts[r.Year]++
	}
	out := make(Series, len(domain))
	for i, y := range domain {
		out[i] = Point{Year: y, Count: counts[y]}
	}
	return out
}

// Cumulative returns the running sum of s.
func Cumulative(s Series) Series {
	out := make(Series, len(s))
	acc := 0
	for i, p := range s {
		acc += p.Count
		out[i] = Point{Year: p.Year, Count: acc}
	}
	return out
}
