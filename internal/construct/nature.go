package construct

import (
	"math"

	"github.com/pictomap/pictomap/internal/colors"
	"github.com/pictomap/pictomap/internal/geometry"
	"github.com/pictomap/pictomap/internal/osm"
	"github.com/pictomap/pictomap/internal/scheme"
)

// defaultCrownRadius is assumed when a tree has a measured trunk but
// no crown diameter, in meters.
const defaultCrownRadius = 2.0

// crownOpacity keeps the canopy translucent so ground detail shows
// through.
const crownOpacity = 0.3

// newTree builds crown and trunk circles for a tree with measured
// size tags. Trees without sizes return nil and are drawn as
// pictograms instead.
func newTree(node *osm.Node, position geometry.Vector, scale float64, style *scheme.Scheme) []Figure {
	crownDiameter, hasCrown := node.Tags.GetFloat("diameter_crown")
	circumference, hasTrunk := node.Tags.GetFloat("circumference")
	if !hasCrown && !hasTrunk {
		return nil
	}

	radius := defaultCrownRadius
	if hasCrown {
		radius = crownDiameter / 2.0
	}
	figures := []Figure{&CircleFigure{
		Center:  position,
		Radius:  radius * scale,
		Color:   style.ColorValue("evergreen", colors.MustParse("#688C44")),
		Opacity: crownOpacity,
	}}

	if hasTrunk {
		figures = append(figures, &CircleFigure{
			Center:  position,
			Radius:  circumference / (2.0 * math.Pi) * scale,
			Color:   style.ColorValue("trunk", colors.MustParse("#804000")),
			Opacity: 1.0,
		})
	}
	return figures
}

// newCrater builds the ridge circle for a crater with a measured
// diameter. Craters without one return nil.
func newCrater(node *osm.Node, position geometry.Vector, scale float64) []Figure {
	diameter, ok := node.Tags.GetFloat("diameter")
	if !ok {
		return nil
	}
	radius := diameter / 2.0 * scale
	return []Figure{&CraterFigure{
		Center:   position,
		Radius:   radius,
		Gradient: position.Add(geometry.Vector{Y: radius / 7.0}),
		Color:    colors.Black,
	}}
}
