package facet

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/orbitdash/pkg/dataset"
	"github.com/matzehuels/orbitdash/pkg/errors"
)

func testRecords() []dataset.Record {
	return []dataset.Record{
		{Year: 2001, Country: "US", ObjectType: dataset.ObjectPayload, Operator: "SpaceX / Starlink"},
		{Year: 2001, Country: "CN", ObjectType: dataset.ObjectDebris, Operator: "Other / Misc"},
		{Year: 2002, Country: "US", ObjectType: dataset.ObjectPayload, Operator: "Other / Misc"},
		{Year: 2003, Country: "Unknown", ObjectType: dataset.ObjectRocketBody, Operator: "China / Yaogan"},
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildValues(t *testing.T) {
	idx := Build(testRecords())

	tests := []struct {
		dim  Dimension
		want []string
	}{
		{Country, []string{"CN", "US", "Unknown"}},
		{Operator, []string{"China / Yaogan", "Other / Misc", "SpaceX / Starlink"}},
		{ObjectType, []string{"DEBRIS", "PAYLOAD", "ROCKET_BODY"}},
	}
	for _, tt := range tests {
		t.Run(tt.dim.String(), func(t *testing.T) {
			if got := idx.Values(tt.dim); !equal(got, tt.want) {
				t.Errorf("Values(%v) = %v, want %v", tt.dim, got, tt.want)
			}
		})
	}
}

func TestBuildDeterministic(t *testing.T) {
	recs := testRecords()
	a := Build(recs)
	reversed := make([]dataset.Record, len(recs))
	for i, r := range recs {
		reversed[len(recs)-1-i] = r
	}
	b := Build(reversed)
	for _, d := range Dimensions() {
		if !equal(a.Values(d), b.Values(d)) {
			t.Errorf("Values(%v) depends on input order: %v vs %v", d, a.Values(d), b.Values(d))
		}
	}
}

func TestValuesReturnsCopy(t *testing.T) {
	idx := Build(testRecords())
	v := idx.Values(Country)
	v[0] = "XX"
	if idx.Values(Country)[0] != "CN" {
		t.Error("Values() exposed internal state")
	}
}

func TestContainsAndCount(t *testing.T) {
	idx := Build(testRecords())
	if !idx.Contains(Country, "US") {
		t.Error("Contains(Country, US) = false")
	}
	if idx.Contains(Country, "us") {
		t.Error("Contains should be case-sensitive")
	}
	if idx.Contains(Dimension(9), "US") {
		t.Error("Contains on invalid dimension should be false")
	}
	if got := idx.Count(Operator, "Other / Misc"); got != 2 {
		t.Errorf("Count(Operator, Other / Misc) = %d, want 2", got)
	}
	if got := idx.Len(ObjectType); got != 3 {
		t.Errorf("Len(ObjectType) = %d, want 3", got)
	}
}

func TestEmptyIndex(t *testing.T) {
	idx := Build(nil)
	for _, d := range Dimensions() {
		if got := idx.Values(d); len(got) != 0 {
			t.Errorf("Values(%v) = %v, want empty", d, got)
		}
	}
}

func TestSearch(t *testing.T) {
	idx := Build(testRecords())
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"China / Yaogan", "Other / Misc", "SpaceX / Starlink"}},
		{"star", []string{"SpaceX / Starlink"}},
		{"  CHINA ", []string{"China / Yaogan"}},
		{"/", []string{"China / Yaogan", "Other / Misc", "SpaceX / Starlink"}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		if got := idx.Search(Operator, tt.query); !equal(got, tt.want) {
			t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in      string
		want    Dimension
		wantErr bool
	}{
		{"country", Country, false},
		{"Operator", Operator, false},
		{"agency", Operator, false},
		{"type", ObjectType, false},
		{"object_type", ObjectType, false},
		{"year", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDimension(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDimension(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, errors.ErrCodeInvalidDimension) {
				t.Errorf("ParseDimension(%q) code = %v", tt.in, errors.GetCode(err))
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDimension(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDimensionJSONKey(t *testing.T) {
	in := map[Dimension][]string{Country: {"US"}, ObjectType: {"PAYLOAD"}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"country":["US"],"object_type":["PAYLOAD"]}` {
		t.Errorf("json = %s", data)
	}
	var out map[Dimension][]string
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out[ObjectType][0] != "PAYLOAD" {
		t.Errorf("round trip lost data: %v", out)
	}
}
