package geometry

import "math"

// EquatorLength is the length of the Earth's equator in meters.
const EquatorLength = 40075017.0

// pseudoMercator converts a geographic point to pseudo-Mercator
// coordinates. The x component is the longitude and the y component is
// 180/pi * ln(tan(pi/4 + lat*pi/360)).
func pseudoMercator(lat, lon float64) Vector {
	y := 180.0 / math.Pi * math.Log(math.Tan(math.Pi/4.0+lat*math.Pi/360.0))
	return Vector{X: lon, Y: y}
}

// inversePseudoMercator is the inverse of pseudoMercator.
func inversePseudoMercator(v Vector) (lat, lon float64) {
	lat = math.Atan(math.Sinh(v.Y*math.Pi/180.0)) * 180.0 / math.Pi
	return lat, v.X
}

// Projector converts geographic coordinates to canvas pixel
// coordinates using the pseudo-Mercator projection. The y axis is
// inverted so that north is up on the canvas.
type Projector struct {
	box      BoundaryBox
	ratio    float64
	size     Vector
	perMeter float64
	origin   Vector
}

// NewProjector creates a projector for the given boundary box at the
// given (possibly fractional) zoom level.
func NewProjector(box BoundaryBox, zoom float64) *Projector {
	ratio := math.Pow(2.0, zoom) * 256.0 / 360.0

	minLat, minLon := box.Min()
	maxLat, maxLon := box.Max()
	low := pseudoMercator(minLat, minLon)
	high := pseudoMercator(maxLat, maxLon)

	size := high.Sub(low).Scale(ratio)
	// Truncate to whole pixels so the canvas has integral dimensions.
	size = Vector{X: math.Trunc(size.X), Y: math.Trunc(size.Y)}

	return &Projector{
		box:      box,
		ratio:    ratio,
		size:     size,
		perMeter: math.Pow(2.0, zoom) / EquatorLength * 256.0,
		origin:   low,
	}
}

// Size returns the canvas dimensions in pixels.
func (p *Projector) Size() Vector { return p.size }

// Box returns the geographic boundary box covered by the canvas.
func (p *Projector) Box() BoundaryBox { return p.box }

// Project converts a geographic point to canvas pixel coordinates.
func (p *Projector) Project(lat, lon float64) Vector {
	result := pseudoMercator(lat, lon).Sub(p.origin).Scale(p.ratio)
	result.Y = p.size.Y - result.Y
	return result
}

// Unproject converts canvas pixel coordinates back to a geographic
// point. It is the inverse of Project.
func (p *Projector) Unproject(point Vector) (lat, lon float64) {
	point.Y = p.size.Y - point.Y
	return inversePseudoMercator(point.Scale(1.0 / p.ratio).Add(p.origin))
}

// PixelsPerMeter returns the number of canvas pixels in one meter of
// ground distance at the given latitude. The Mercator projection
// stretches distances away from the equator, hence the 1/cos factor.
func (p *Projector) PixelsPerMeter(lat float64) float64 {
	return p.perMeter * math.Abs(1.0/math.Cos(lat/180.0*math.Pi))
}

// CenterScale returns PixelsPerMeter at the center of the boundary box.
func (p *Projector) CenterScale() float64 {
	lat, _ := p.box.Center()
	return p.PixelsPerMeter(lat)
}
