package dataset

import (
	"math"
	"strconv"
	"strings"
)

// UnknownCountry is the country label used when the source has none.
const UnknownCountry = "Unknown"

// RawRow is one loosely typed input row keyed by logical field name
// (see [Columns]). Values are float64, string or nil.
type RawRow map[string]any

// Logical field names used as RawRow keys.
const (
	FieldYear       = "year"
	FieldCountry    = "country"
	FieldObjectType = "object_type"
	FieldStatus     = "status"
	FieldName       = "name"
)

// Normalizer converts raw rows into records. The zero value classifies with
// the built-in catalogs.
type Normalizer struct {
	Operators RuleSet
	Drivers   RuleSet
}

// NewNormalizer returns a Normalizer using the built-in rule catalogs.
func NewNormalizer() *Normalizer {
	return &Normalizer{Operators: OperatorRules, Drivers: DriverRules}
}

func (n *Normalizer) operators() RuleSet {
	if n == nil || (len(n.Operators.Rules) == 0 && n.Operators.Fallback == "") {
		return OperatorRules
	}
	return n.Operators
}

func (n *Normalizer) drivers() RuleSet {
	if n == nil || (len(n.Drivers.Rules) == 0 && n.Drivers.Fallback == "") {
		return DriverRules
	}
	return n.Drivers
}

// Normalize maps rows to records in input order, dropping rows without a
// usable year. It never fails.
func (n *Normalizer) Normalize(rows []RawRow) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		if rec, ok := n.NormalizeRow(row); ok {
			out = append(out, rec)
		}
	}
	return out
}

// NormalizeRow maps a single row. ok is false when the year is missing or
// not a finite integer.
func (n *Normalizer) NormalizeRow(row RawRow) (rec Record, ok bool) {
	year, ok := toYear(row[FieldYear])
	if !ok {
		return Record{}, false
	}
	country := toText(row[FieldCountry])
	if strings.TrimSpace(country) == "" {
		country = UnknownCountry
	}
	name := toText(row[FieldName])
	return Record{
		Year:       year,
		Country:    country,
		ObjectType: ParseObjectType(toText(row[FieldObjectType])),
		Status:     ParseStatus(toText(row[FieldStatus])),
		Name:       name,
		Operator:   n.operators().Classify(name),
		Driver:     n.drivers().Classify(name),
	}, true
}

func toYear(v any) (int, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// toText renders a cell as text. Numbers that were auto-typed by the loader
// (a satellite named "1957", say) are formatted back without a fraction.
func toText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return ""
	}
}
