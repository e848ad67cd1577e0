package construct

import (
	"strings"

	"github.com/pictomap/pictomap/internal/osm"
)

// Mode selects the drawing mode.
type Mode string

const (
	// ModeNormal draws the map with the full style scheme.
	ModeNormal Mode = "normal"

	// ModeAuthor draws a wireframe where each way is colored by its
	// last editor, deterministically derived from the author name.
	ModeAuthor Mode = "author"

	// ModeTime draws a wireframe where way color encodes edit age.
	ModeTime Mode = "time"

	// ModeWhite draws a black-on-white wireframe.
	ModeWhite Mode = "white"

	// ModeBlack draws a white-on-black wireframe.
	ModeBlack Mode = "black"
)

// Options configure one construction pass.
type Options struct {
	Mode Mode

	// Seed makes author coloring reproducible across renders.
	Seed string

	// Level filters features by their level tag: "all" disables
	// filtering, "overground" drops negative levels, "underground"
	// keeps only negative levels, and a number keeps only features on
	// that level (untagged features always pass).
	Level string

	// ExtrudeBuildings enables isometric building extrusion.
	ExtrudeBuildings bool

	// Labels selects which tags become text labels.
	Labels LabelMode
}

// DefaultOptions returns the standard drawing configuration.
func DefaultOptions() Options {
	return Options{
		Mode:             ModeNormal,
		Level:            "all",
		ExtrudeBuildings: true,
		Labels:           LabelsMain,
	}
}

// levelMatches applies the level filter to a feature's tags. Features
// without a level tag are always kept.
func (o Options) levelMatches(tags osm.Tags) bool {
	if o.Level == "" || o.Level == "all" {
		return true
	}
	value, ok := tags["level"]
	if !ok {
		return true
	}
	for _, level := range strings.Split(value, ";") {
		level = strings.TrimSpace(level)
		switch o.Level {
		case "overground":
			if !strings.HasPrefix(level, "-") {
				return true
			}
		case "underground":
			if strings.HasPrefix(level, "-") {
				return true
			}
		default:
			if level == o.Level {
				return true
			}
		}
	}
	return false
}
