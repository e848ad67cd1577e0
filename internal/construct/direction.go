package construct

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pictomap/pictomap/internal/colors"
	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/osm"
)

// DefaultSectorHalfAngle is half the wedge span drawn when a
// direction tag names a single bearing without an explicit range.
const DefaultSectorHalfAngle = math.Pi / 12.0

// sectorRadius is the wedge radius in canvas pixels.
const sectorRadius = 50.0

// cardinalDirections maps compass point names to bearings in degrees
// clockwise from north.
var cardinalDirections = map[string]float64{
	"N": 0, "NNE": 22.5, "NE": 45, "ENE": 67.5,
	"E": 90, "ESE": 112.5, "SE": 135, "SSE": 157.5,
	"S": 180, "SSW": 202.5, "SW": 225, "WSW": 247.5,
	"W": 270, "WNW": 292.5, "NW": 315, "NNW": 337.5,
}

// ParseDirection parses a single bearing: a compass point name or a
// number of degrees clockwise from north.
func ParseDirection(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if bearing, ok := cardinalDirections[strings.ToUpper(text)]; ok {
		return bearing, nil
	}
	bearing, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid direction %q", text)
	}
	return math.Mod(math.Mod(bearing, 360)+360, 360), nil
}

// DirectionSet is a parsed direction tag value: a list of bearing
// ranges, or a full circle.
type DirectionSet struct {
	// Sectors are [from, to] bearing pairs in degrees.
	Sectors [][2]float64

	// Full marks a panorama covering all directions.
	Full bool
}

// ParseDirectionSet parses a direction tag value. Accepted forms:
// a single bearing ("45", "NE"), a range ("120-240"), a semicolon
// separated list of those, or "panorama" for a full circle.
func ParseDirectionSet(text string) (*DirectionSet, error) {
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "panorama") || strings.EqualFold(text, "all") {
		return &DirectionSet{Full: true}, nil
	}

	set := &DirectionSet{}
	for _, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if index := strings.Index(part, "-"); index > 0 {
			from, err := ParseDirection(part[:index])
			if err != nil {
				return nil, err
			}
			to, err := ParseDirection(part[index+1:])
			if err != nil {
				return nil, err
			}
			// Ranges crossing north, like 350-10, continue past 360
			// so the wedge spans the short way around.
			if to <= from {
				to += 360.0
			}
			set.Sectors = append(set.Sectors, [2]float64{from, to})
			continue
		}
		bearing, err := ParseDirection(part)
		if err != nil {
			return nil, err
		}
		half := DefaultSectorHalfAngle * 180.0 / math.Pi
		set.Sectors = append(set.Sectors, [2]float64{bearing - half, bearing + half})
	}
	if len(set.Sectors) == 0 {
		return nil, fmt.Errorf("invalid direction %q", text)
	}
	return set, nil
}

// bearingToCanvas converts a bearing in degrees clockwise from north
// to a canvas angle in radians. Canvas angles are measured from the
// positive x axis with y pointing down, so north maps to -pi/2.
func bearingToCanvas(bearing float64) float64 {
	return (bearing - 90.0) * math.Pi / 180.0
}

// newSectors builds direction indicator figures for a node, if it
// carries a direction tag. Surveillance cameras fade outward from the
// camera; viewpoints fade inward toward the viewer.
func newSectors(node *osm.Node, position geometry.Vector) []Figure {
	value, ok := node.Tags["direction"]
	if !ok {
		value, ok = node.Tags["camera:direction"]
	}
	if !ok {
		return nil
	}

	set, err := ParseDirectionSet(value)
	if err != nil {
		return nil
	}

	surveillance := node.Tags.Get("man_made") == "surveillance"
	color := colors.MustParse("#888888")
	if surveillance {
		color = colors.MustParse("#CC4444")
	}

	if set.Full {
		return []Figure{&SectorFigure{
			Center:  position,
			Radius:  sectorRadius,
			Full:    true,
			Color:   color,
			FadeOut: surveillance,
		}}
	}

	figures := make([]Figure, 0, len(set.Sectors))
	for _, sector := range set.Sectors {
		figures = append(figures, &SectorFigure{
			Center:  position,
			Radius:  sectorRadius,
			Start:   bearingToCanvas(sector[0]),
			End:     bearingToCanvas(sector[1]),
			Color:   color,
			FadeOut: surveillance,
		})
	}
	return figures
}
