// Package scheme implements the map style: an ordered set of tag-match
// rules loaded from a YAML document, a resolver that turns a feature's
// tags into a draw plan, and an exporter producing MapCSS style sheets
// from the same rules.
package scheme

import (
	"strconv"
	"strings"

	"github.com/pictomap/pictomap/internal/osm"
)

// AnyValue in a rule predicate matches any value of the key.
const AnyValue = "*"

// ShapeRef references a shape from the pictogram library, optionally
// with an explicit color and offset.
type ShapeRef struct {
	ID     string     `yaml:"id"`
	Color  string     `yaml:"color,omitempty"`
	Offset [2]float64 `yaml:"offset,omitempty"`
}

// UnmarshalYAML accepts either a bare shape identifier or a full
// mapping with id, color, and offset.
func (s *ShapeRef) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var id string
	if err := unmarshal(&id); err == nil {
		s.ID = id
		return nil
	}
	type plain struct {
		ID     string     `yaml:"id"`
		Color  string     `yaml:"color"`
		Offset [2]float64 `yaml:"offset"`
	}
	var full plain
	if err := unmarshal(&full); err != nil {
		return err
	}
	s.ID = full.ID
	s.Color = full.Color
	s.Offset = full.Offset
	return nil
}

// Rule maps a tag predicate to a drawing directive. A rule may
// contribute a main icon, extra icons, an overlay for combinatorial
// icons, or line and area styling; matching rules accumulate rather
// than short-circuit.
type Rule struct {
	// Tags is the predicate: every key must be present with the given
	// value. The value "*" matches any value, and comparison forms
	// like ">=2" match numerically.
	Tags map[string]string `yaml:"tags"`

	// Exception lists tag values that must not be present.
	Exception map[string]string `yaml:"exception,omitempty"`

	// Shapes is the main icon for matching point features.
	Shapes []ShapeRef `yaml:"shapes,omitempty"`

	// AddShapes contributes extra icons alongside the main icon.
	AddShapes []ShapeRef `yaml:"add_shapes,omitempty"`

	// OverIcon shapes are stacked over a previously selected main
	// icon whose base shape identifier is listed in UnderIcon.
	OverIcon  []ShapeRef `yaml:"over_icon,omitempty"`
	UnderIcon []string   `yaml:"under_icon,omitempty"`

	// Color names the category color for icons without an explicit
	// per-shape color. It is either a name from the scheme color
	// table or a hex value.
	Color string `yaml:"color,omitempty"`

	// Style holds line and area drawing properties for ways: fill,
	// stroke, stroke-width, stroke-dasharray, opacity.
	Style map[string]string `yaml:"style,omitempty"`

	// Layer orders figures between rule classes.
	Layer float64 `yaml:"layer,omitempty"`

	// Priority breaks ties between overlapping icons.
	Priority float64 `yaml:"priority,omitempty"`
}

// Matches reports whether the feature tags satisfy the rule predicate.
func (r *Rule) Matches(tags osm.Tags) bool {
	for key, expected := range r.Tags {
		value, ok := tags[key]
		if !ok {
			return false
		}
		if !valueMatches(expected, value) {
			return false
		}
	}
	for key, forbidden := range r.Exception {
		if value, ok := tags[key]; ok && valueMatches(forbidden, value) {
			return false
		}
	}
	return true
}

// valueMatches checks one predicate clause against a tag value.
// Besides exact matches it supports the wildcard "*" and numeric
// comparisons of the form "<n", "<=n", ">n", ">=n". A malformed
// numeric tag value fails the comparison rather than aborting.
func valueMatches(expected, value string) bool {
	if expected == AnyValue {
		return true
	}
	for _, prefix := range []string{"<=", ">=", "<", ">"} {
		if strings.HasPrefix(expected, prefix) {
			bound, err := strconv.ParseFloat(strings.TrimSpace(expected[len(prefix):]), 64)
			if err != nil {
				return false
			}
			number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return false
			}
			switch prefix {
			case "<":
				return number < bound
			case "<=":
				return number <= bound
			case ">":
				return number > bound
			case ">=":
				return number >= bound
			}
		}
	}
	return expected == value
}

// Specificity scores the rule predicate: exact clauses count double,
// wildcard clauses single. Higher specificity wins when two rules
// compete for the same visual slot.
func (r *Rule) Specificity() int {
	score := 0
	for _, value := range r.Tags {
		if value == AnyValue {
			score++
		} else {
			score += 2
		}
	}
	return score
}
