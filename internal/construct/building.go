package construct

import (
	"sort"

	"github.com/pictomap/pictomap/internal/colors"
	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/osm"
	"github.com/pictomap/pictomap/internal/scheme"
)

// Building extrusion constants. Heights are in meters.
const (
	// LevelHeight is the assumed height of one building level.
	LevelHeight = 2.5

	// DefaultBuildingHeight is the minimal extrusion height. Height
	// and level tags add to it, so a one-story shed still reads as a
	// building next to its taller neighbors.
	DefaultBuildingHeight = 8.0

	// buildingScale converts meters of height to canvas pixels of
	// isometric offset, on top of the projector's meter scale.
	buildingScale = 0.33

	// shadeScale is the luminance swing between walls facing
	// opposite directions.
	shadeScale = 0.4
)

// buildingHeight derives the extrusion height and base offset in
// meters from the feature tags. The minimal height is a base that
// height and level values add to; malformed values fall back to
// level-based estimation, then to the base alone.
func buildingHeight(tags osm.Tags) (height, minHeight float64) {
	height = DefaultBuildingHeight
	if value, ok := tags.GetLength("height"); ok {
		height = DefaultBuildingHeight + value
	} else if levels, ok := tags.GetFloat("building:levels"); ok {
		height = DefaultBuildingHeight + levels*LevelHeight
	}

	if value, ok := tags.GetLength("min_height"); ok {
		minHeight = DefaultBuildingHeight + value
	} else if levels, ok := tags.GetFloat("building:min_level"); ok {
		minHeight = DefaultBuildingHeight + levels*LevelHeight
	}
	if minHeight >= height {
		minHeight = 0
	}
	return height, minHeight
}

// newBuilding projects a building footprint and extrudes it. When
// extrude is false, or the footprint is degenerate, the result is a
// flat footprint figure with zero height rather than nothing.
func newBuilding(way *osm.Way, projector *geometry.Projector, style *scheme.Scheme, extrude bool) *BuildingFigure {
	footprint := projectWay(way, projector)
	if len(footprint) < 3 {
		return nil
	}

	figure := &BuildingFigure{
		Footprint: footprint,
		FillColor: style.ColorValue("building", colors.MustParse("#F8DCA8")),
		LineColor: style.ColorValue("building_border", colors.MustParse("#E0B254")),
	}
	if !extrude {
		return figure
	}

	height, minHeight := buildingHeight(way.Tags)
	figure.Height = height
	figure.MinHeight = minHeight

	lat, _ := projector.Box().Center()
	scale := projector.PixelsPerMeter(lat) * buildingScale
	offset := geometry.Vector{X: 0, Y: -height * scale}

	// Walls are sorted far-to-near so closer walls paint over the
	// ones behind them.
	segments := make([]geometry.Segment, 0, len(footprint))
	for i := 0; i < len(footprint); i++ {
		segments = append(segments, geometry.NewSegment(footprint[i], footprint[(i+1)%len(footprint)]))
	}
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].MidY < segments[j].MidY
	})

	for _, segment := range segments {
		luminance := 1.0 - shadeScale + shadeScale*segment.Angle
		figure.Walls = append(figure.Walls, Wall{
			Points: []geometry.Vector{
				segment.A,
				segment.B,
				segment.B.Add(offset),
				segment.A.Add(offset),
			},
			Color: figure.FillColor.Scale(luminance),
		})
	}

	figure.Roof = make([]geometry.Vector, len(footprint))
	for i, point := range footprint {
		figure.Roof[i] = point.Add(offset)
	}
	return figure
}

// projectWay projects the way's nodes, dropping the duplicate closing
// node of cycles.
func projectWay(way *osm.Way, projector *geometry.Projector) []geometry.Vector {
	nodes := way.Nodes
	if way.IsCycle() {
		nodes = nodes[:len(nodes)-1]
	}
	points := make([]geometry.Vector, 0, len(nodes))
	for _, node := range nodes {
		points = append(points, projector.Project(node.Lat, node.Lon))
	}
	return points
}
