package dataset

import (
	"regexp"
	"strings"

	"github.com/matzehuels/orbitdash/pkg/errors"
)

// Rule maps an object name to a label. A rule matches when any keyword is a
// substring of the upper-cased name, or when Pattern matches it.
type Rule struct {
	Label    string
	Keywords []string
	Pattern  *regexp.Regexp
}

// NewRule builds a rule from its label, an optional regular expression and
// keywords. Keywords are upper-cased; the pattern is matched against the
// upper-cased name as written.
func NewRule(label, pattern string, keywords ...string) (Rule, error) {
	if strings.TrimSpace(label) == "" {
		return Rule{}, errors.New(errors.ErrCodeInvalidConfig, "rule label is empty")
	}
	r := Rule{Label: label}
	for _, k := range keywords {
		if k = strings.ToUpper(strings.TrimSpace(k)); k != "" {
			r.Keywords = append(r.Keywords, k)
		}
	}
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Rule{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "rule %q: bad pattern", label)
		}
		r.Pattern = re
	}
	if len(r.Keywords) == 0 && r.Pattern == nil {
		return Rule{}, errors.New(errors.ErrCodeInvalidConfig, "rule %q has neither keywords nor pattern", label)
	}
	return r, nil
}

func mustRule(label, pattern string, keywords ...string) Rule {
	r, err := NewRule(label, pattern, keywords...)
	if err != nil {
		panic(err)
	}
	return r
}

// Matches reports whether the rule applies to an already upper-cased name.
func (r Rule) Matches(upper string) bool {
	if r.Pattern != nil && r.Pattern.MatchString(upper) {
		return true
	}
	for _, k := range r.Keywords {
		if strings.Contains(upper, k) {
			return true
		}
	}
	return false
}

// RuleSet is an ordered classification catalog. The first matching rule wins,
// so two catalogs with the same rules in a different order are different
// classifiers.
type RuleSet struct {
	Name     string
	Rules    []Rule
	Fallback string
}

// Classify returns the label of the first rule matching name, or Fallback.
func (s RuleSet) Classify(name string) string {
	upper := strings.ToUpper(name)
	for _, r := range s.Rules {
		if r.Matches(upper) {
			return r.Label
		}
	}
	return s.Fallback
}

// OperatorRules attributes objects to the operating organisation.
var OperatorRules = RuleSet{
	Name:     "operator",
	Fallback: "Other / Misc",
	Rules: []Rule{
		mustRule("SpaceX / Starlink", "", "STARLINK"),
		mustRule("OneWeb", "", "ONEWEB"),
		mustRule("Iridium", "", "IRIDIUM"),
		mustRule("Planet", "", "PLANET", "FLOCK", "DOVE"),
		mustRule("USAF / GPS", "", "GPS", "NAVSTAR"),
		mustRule("Roscosmos / GLONASS", "", "GLONASS"),
		mustRule("EU / Galileo", "", "GALILEO"),
		mustRule("China / BeiDou", "", "BEIDOU", "BDS"),
		mustRule("China / Yaogan", "", "YAOGAN"),
		mustRule("China / Gaofen", "", "GAOFEN"),
		mustRule("Russia / Cosmos", "", "COSMOS", "KOSMOS"),
		mustRule("China / Shijian", "", "SHIJIAN", "SJ-"),
	},
}

// DriverRules attributes objects to the programme driving launch growth.
var DriverRules = RuleSet{
	Name:     "driver",
	Fallback: "Other",
	Rules: []Rule{
		mustRule("Starlink", "", "STARLINK"),
		mustRule("OneWeb", "", "ONEWEB"),
		mustRule("Iridium", "", "IRIDIUM"),
		mustRule("GPS", "", "GPS"),
		mustRule("GLONASS", "", "GLONASS"),
		mustRule("Galileo", "", "GALILEO"),
		mustRule("BeiDou", "", "BEIDOU", "BDS"),
		mustRule("Planet", "", "PLANET", "FLOCK", "DOVE"),
		mustRule("CubeSat", `\bCUBE[-\s]?SAT\b`, "CUBESAT"),
	},
}
