package construct

import (
	"strconv"
	"strings"

	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/osm"
	"github.com/pictomap/pictomap/internal/scheme"
)

// Road geometry constants.
const (
	// LaneWidth is the assumed width of one traffic lane in meters.
	LaneWidth = 3.7

	// DefaultLanes is assumed when a road carries neither a width
	// nor a lanes tag.
	DefaultLanes = 2
)

// laneCount parses the lanes tag. Values like "2" and "2;3" occur;
// only the leading number is used. Malformed values report zero.
func laneCount(tags osm.Tags) int {
	value, ok := tags["lanes"]
	if !ok {
		return 0
	}
	if index := strings.IndexByte(value, ';'); index >= 0 {
		value = value[:index]
	}
	lanes, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || lanes < 1 {
		return 0
	}
	return lanes
}

// roadWidth derives the road width in meters: an explicit width tag
// wins, then the lane count estimate, then the default.
func roadWidth(tags osm.Tags, lanes int) float64 {
	if width, ok := tags.GetLength("width"); ok && width > 0 {
		return width
	}
	if lanes > 0 {
		return float64(lanes) * LaneWidth
	}
	return DefaultLanes * LaneWidth
}

// newRoad projects a road way and derives its width and lane
// separator lines. Separator lines are evenly spaced across the
// width, excluding the outer edges, so n lanes yield n-1 separators.
func newRoad(way *osm.Way, road *scheme.Road, projector *geometry.Projector) *RoadFigure {
	points := projectWay(way, projector)
	if len(points) < 2 {
		return nil
	}

	lanes := laneCount(way.Tags)
	widthMeters := roadWidth(way.Tags, lanes)

	lat, _ := projector.Box().Center()
	width := widthMeters * projector.PixelsPerMeter(lat)

	figure := &RoadFigure{
		Points: points,
		Width:  width,
		Style:  *road,
		Lanes:  lanes,
	}

	if lanes >= 2 {
		for lane := 1; lane < lanes; lane++ {
			offset := width * (float64(lane)/float64(lanes) - 0.5)
			figure.Separators = append(figure.Separators, offsetPolyline(points, offset))
		}
	}
	return figure
}

// offsetPolyline shifts a polyline sideways by the given distance.
// Interior points use the miter of the adjacent segment normals so
// separators stay parallel through bends.
func offsetPolyline(points []geometry.Vector, distance float64) []geometry.Vector {
	if len(points) < 2 {
		return nil
	}
	normals := make([]geometry.Vector, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		normals[i] = points[i+1].Sub(points[i]).Normalized().Perpendicular()
	}

	shifted := make([]geometry.Vector, len(points))
	for i := range points {
		var normal geometry.Vector
		switch {
		case i == 0:
			normal = normals[0]
		case i == len(points)-1:
			normal = normals[len(normals)-1]
		default:
			normal = normals[i-1].Add(normals[i]).Normalized()
			// Scale the miter so the offset distance is kept at the
			// joint.
			if cos := normal.X*normals[i].X + normal.Y*normals[i].Y; cos > 0.1 {
				normal = normal.Scale(1.0 / cos)
			}
		}
		shifted[i] = points[i].Add(normal.Scale(distance))
	}
	return shifted
}
