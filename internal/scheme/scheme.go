package scheme

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pictomap/pictomap/internal/colors"
)

// StagesOfDecay are the recognized lifecycle tag prefixes, ordered
// from least to most decayed. A key like "disused:shop" reuses the
// rules for "shop" with dimmed styling.
var StagesOfDecay = []string{
	"disused",
	"abandoned",
	"ruins",
	"demolished",
	"removed",
	"razed",
	"destroyed",
	"was",
}

// DecayOpacity returns the drawing opacity for a lifecycle stage
// index: 0.6 for the first stage falling linearly to 0.2 for the
// last.
func DecayOpacity(stage int) float64 {
	return 0.6 - 0.4*float64(stage)/float64(len(StagesOfDecay)-1)
}

// RoadStyle describes how a road class is drawn: casing and fill
// colors plus a priority ordering casings below fills of more
// important roads.
type RoadStyle struct {
	Tags        map[string]string `yaml:"tags"`
	Color       string            `yaml:"color"`
	BorderColor string            `yaml:"border_color,omitempty"`
	Priority    float64           `yaml:"priority,omitempty"`
}

// Scheme is a complete map style: named colors, ordered icon rules
// for point features, ordered style rules for ways and areas, and
// road classes.
type Scheme struct {
	// Colors is the named color table referenced by rules.
	Colors map[string]string `yaml:"colors"`

	// NodeRules are evaluated against point features.
	NodeRules []Rule `yaml:"node_rules"`

	// WayRules are evaluated against linear and area features.
	WayRules []Rule `yaml:"way_rules"`

	// Roads are matched against highway-class ways.
	Roads []RoadStyle `yaml:"roads"`

	// LifecycleEnabled turns on lifecycle-prefix matching. When
	// false, a "disused:shop" key matches nothing instead of the
	// dimmed "shop" styling.
	LifecycleEnabled bool `yaml:"lifecycle_enabled"`

	parsedColors map[string]colors.Color
}

// Load parses a YAML style document.
func Load(r io.Reader) (*Scheme, error) {
	document, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading scheme: %w", err)
	}
	scheme := &Scheme{LifecycleEnabled: true}
	if err := yaml.Unmarshal(document, scheme); err != nil {
		return nil, fmt.Errorf("parsing scheme: %w", err)
	}
	if err := scheme.finish(); err != nil {
		return nil, err
	}
	return scheme, nil
}

// LoadFile parses the YAML style document at the given path.
func LoadFile(path string) (*Scheme, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scheme: %w", err)
	}
	defer file.Close()

	scheme, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return scheme, nil
}

// finish validates the color table.
func (s *Scheme) finish() error {
	s.parsedColors = make(map[string]colors.Color, len(s.Colors))
	for name, value := range s.Colors {
		parsed, err := colors.Parse(value)
		if err != nil {
			return fmt.Errorf("scheme color %q: %w", name, err)
		}
		s.parsedColors[name] = parsed
	}
	return nil
}

// ColorValue resolves a color reference: first against the scheme's
// named color table, then as a literal hex or CSS value. The fallback
// is returned for empty or unparseable references.
func (s *Scheme) ColorValue(reference string, fallback colors.Color) colors.Color {
	if reference == "" {
		return fallback
	}
	if named, ok := s.parsedColors[reference]; ok {
		return named
	}
	parsed, err := colors.Parse(reference)
	if err != nil {
		return fallback
	}
	return parsed
}
