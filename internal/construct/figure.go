// Package construct drives the rendering decision pipeline over a
// feature set: it resolves tags against the style scheme, projects
// geometry, extrudes buildings, builds road and direction-sector
// geometry, and emits the ordered figure set handed to the renderer.
package construct

import (
	"github.com/pictomap/pictomap/internal/colors"
	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/icons"
	"github.com/pictomap/pictomap/internal/scheme"
)

// Figure is one projected drawable primitive. Figures are ordered by
// layer, then priority, then insertion order, and the renderer draws
// them in that order without further sorting.
type Figure interface {
	// SortKey returns the layer and priority of the figure.
	SortKey() (layer, priority float64)
}

// PathFigure is a stroked or filled polyline or polygon in canvas
// coordinates.
type PathFigure struct {
	Points []geometry.Vector
	Closed bool
	Style  scheme.LineStyle
}

func (f *PathFigure) SortKey() (float64, float64) {
	return f.Style.Layer, f.Style.Priority
}

// IconFigure places a composed icon at a point.
type IconFigure struct {
	Icon     icons.Icon
	Position geometry.Vector
	Opacity  float64
	Priority float64
}

func (f *IconFigure) SortKey() (float64, float64) {
	// Icons are always drawn above area and line work.
	return 100.0, f.Priority
}

// LabelFigure places text near a point.
type LabelFigure struct {
	Text     string
	Position geometry.Vector
	Color    colors.Color
	Size     float64
	Priority float64
}

func (f *LabelFigure) SortKey() (float64, float64) {
	return 200.0, f.Priority
}

// CircleFigure is a filled circle in canvas coordinates, used for
// tree crowns and trunks with measured sizes.
type CircleFigure struct {
	Center  geometry.Vector
	Radius  float64
	Color   colors.Color
	Opacity float64
}

func (f *CircleFigure) SortKey() (float64, float64) {
	return 60.0, 0
}

// CraterFigure is a crater ridge: a circle whose radial gradient
// darkens toward the rim. The gradient center sits slightly below the
// geometric center to suggest depth.
type CraterFigure struct {
	Center   geometry.Vector
	Radius   float64
	Gradient geometry.Vector
	Color    colors.Color
}

func (f *CraterFigure) SortKey() (float64, float64) {
	return 60.0, 0
}

// Wall is one shaded side polygon of an extruded building.
type Wall struct {
	Points []geometry.Vector
	Color  colors.Color
}

// BuildingFigure is an isometrically extruded building: shaded wall
// polygons in back-to-front order, then the lifted roof.
type BuildingFigure struct {
	Footprint []geometry.Vector
	Walls     []Wall
	Roof      []geometry.Vector
	FillColor colors.Color
	LineColor colors.Color

	// Height is the extrusion height in meters. Zero means the
	// building is drawn as a flat footprint.
	Height    float64
	MinHeight float64
}

func (f *BuildingFigure) SortKey() (float64, float64) {
	// Buildings sit above ground areas but below icons; taller
	// buildings draw later so they overlap shorter neighbors.
	return 50.0, f.Height
}

// RoadFigure is a road rendered as a casing line, a fill line, and
// zero or more lane separator lines.
type RoadFigure struct {
	Points     []geometry.Vector
	Separators [][]geometry.Vector

	// Width is the total road width in canvas pixels.
	Width float64

	Style scheme.Road

	Lanes int
}

func (f *RoadFigure) SortKey() (float64, float64) {
	return 10.0, f.Style.Priority
}

// SectorFigure is a direction indicator: a pie wedge (or full disc)
// centered on a point, with a radial gradient fading inward or
// outward.
type SectorFigure struct {
	Center geometry.Vector
	Radius float64

	// Start and End are wedge angles in radians. A full circle is
	// marked by Full instead.
	Start float64
	End   float64
	Full  bool

	Color colors.Color

	// FadeOut makes the gradient strongest at the center, fading
	// toward the rim; false inverts it.
	FadeOut bool
}

func (f *SectorFigure) SortKey() (float64, float64) {
	return 90.0, 0
}
