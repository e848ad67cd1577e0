// Package osm holds the OpenStreetMap data model: tagged nodes, ways
// and relations, a reader for the XML interchange format, an HTTP
// downloader, and an R-tree index for spatial queries.
package osm

import (
	"regexp"
	"strconv"
	"strings"
)

// Tags is a set of OpenStreetMap key-value tags describing a feature.
type Tags map[string]string

// lengthPattern matches values like "10", "10.5 m", "3km", "2 mi".
var lengthPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(m|km|mi)?$`)

// lengthUnits maps recognized length units to meters.
var lengthUnits = map[string]float64{
	"m":  1.0,
	"km": 1000.0,
	"mi": 1609.344,
}

// Has reports whether the tag key is present.
func (t Tags) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// Get returns the tag value or the empty string.
func (t Tags) Get(key string) string {
	return t[key]
}

// GetFloat returns the tag value parsed as a floating-point number.
func (t Tags) GetFloat(key string) (float64, bool) {
	value, ok := t[key]
	if !ok {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// GetLength returns the tag value interpreted as a length in meters.
// Values may carry an optional unit suffix: "m" (default), "km", or
// "mi".
func (t Tags) GetLength(key string) (float64, bool) {
	value, ok := t[key]
	if !ok {
		return 0, false
	}
	match := lengthPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, false
	}
	number, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	unit := match[2]
	if unit == "" {
		unit = "m"
	}
	return number * lengthUnits[unit], true
}

// Subset reports whether every tag in t is present with the same value
// in other.
func (t Tags) Subset(other Tags) bool {
	for key, value := range t {
		if other[key] != value {
			return false
		}
	}
	return true
}

// Clone returns a copy of the tag set.
func (t Tags) Clone() Tags {
	clone := make(Tags, len(t))
	for key, value := range t {
		clone[key] = value
	}
	return clone
}
