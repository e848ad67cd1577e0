// Package geometry provides the planar building blocks for map rendering:
// geographic boundary boxes, 2D vectors and segments, and the Mercator
// projector that converts geographic coordinates to pixel space.
package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Maximum extent of a boundary box in degrees. Larger requests are
// rejected so a single render cannot cover half a continent.
const (
	maxLatitudeSpan  = 0.5
	maxLongitudeSpan = 0.5
)

// roundPrecision is the number of decimal digits boundary boxes are
// rounded to for cache-key stability.
const roundPrecision = 1000.0

// BoundaryBox is a geographic rectangle limiting the rendered area.
//
// Invariants: Left < Right and Bottom < Top. Coordinates are WGS-84
// decimal degrees.
type BoundaryBox struct {
	Left   float64 // Minimum longitude.
	Bottom float64 // Minimum latitude.
	Right  float64 // Maximum longitude.
	Top    float64 // Maximum latitude.
}

// ParseBoundaryBox parses the textual form
// "<left>,<bottom>,<right>,<top>" (minimum longitude, minimum latitude,
// maximum longitude, maximum latitude). Spaces are ignored.
func ParseBoundaryBox(text string) (BoundaryBox, error) {
	text = strings.ReplaceAll(text, " ", "")

	parts := strings.Split(text, ",")
	if len(parts) != 4 {
		return BoundaryBox{}, &ErrInvalidBoundaryBox{Text: text, Reason: "expected four comma-separated values"}
	}

	values := make([]float64, 4)
	for i, part := range parts {
		value, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return BoundaryBox{}, &ErrInvalidBoundaryBox{Text: text, Reason: fmt.Sprintf("bad number %q", part)}
		}
		values[i] = value
	}

	box := BoundaryBox{Left: values[0], Bottom: values[1], Right: values[2], Top: values[3]}
	if err := box.Validate(); err != nil {
		return BoundaryBox{}, err
	}
	return box, nil
}

// Validate checks the boundary box invariants and the size limit.
func (b BoundaryBox) Validate() error {
	if b.Left >= b.Right {
		return &ErrInvalidBoundaryBox{Text: b.String(), Reason: "negative horizontal boundary"}
	}
	if b.Bottom >= b.Top {
		return &ErrInvalidBoundaryBox{Text: b.String(), Reason: "negative vertical boundary"}
	}
	if b.Right-b.Left > maxLongitudeSpan || b.Top-b.Bottom > maxLatitudeSpan {
		return &ErrInvalidBoundaryBox{Text: b.String(), Reason: "boundary box is too big"}
	}
	return nil
}

// Min returns the minimum (latitude, longitude) corner.
func (b BoundaryBox) Min() (lat, lon float64) { return b.Bottom, b.Left }

// Max returns the maximum (latitude, longitude) corner.
func (b BoundaryBox) Max() (lat, lon float64) { return b.Top, b.Right }

// LeftTop returns the north-west corner as (latitude, longitude).
func (b BoundaryBox) LeftTop() (lat, lon float64) { return b.Top, b.Left }

// RightBottom returns the south-east corner as (latitude, longitude).
func (b BoundaryBox) RightBottom() (lat, lon float64) { return b.Bottom, b.Right }

// Center returns the central point as (latitude, longitude).
func (b BoundaryBox) Center() (lat, lon float64) {
	return (b.Top + b.Bottom) / 2.0, (b.Left + b.Right) / 2.0
}

// Round rounds the boundary box outward to three decimal digits, then
// expands every edge by a further 0.001 degrees. The expansion avoids
// edge-clipping artifacts at tile seams and makes the rounded box a
// stable cache key.
func (b BoundaryBox) Round() BoundaryBox {
	return BoundaryBox{
		Left:   math.Round(b.Left*roundPrecision)/roundPrecision - 0.001,
		Bottom: math.Round(b.Bottom*roundPrecision)/roundPrecision - 0.001,
		Right:  math.Round(b.Right*roundPrecision)/roundPrecision + 0.001,
		Top:    math.Round(b.Top*roundPrecision)/roundPrecision + 0.001,
	}
}

// Format returns the canonical cache-key representation of the boundary
// box: coordinates rounded outward (floor for minimums, ceiling for
// maximums) to three decimal digits.
func (b BoundaryBox) Format() string {
	return fmt.Sprintf(
		"%.3f,%.3f,%.3f,%.3f",
		math.Floor(b.Left*roundPrecision)/roundPrecision,
		math.Floor(b.Bottom*roundPrecision)/roundPrecision,
		math.Ceil(b.Right*roundPrecision)/roundPrecision,
		math.Ceil(b.Top*roundPrecision)/roundPrecision,
	)
}

// Update grows the boundary box to cover the given point.
func (b *BoundaryBox) Update(lat, lon float64) {
	b.Left = math.Min(b.Left, lon)
	b.Bottom = math.Min(b.Bottom, lat)
	b.Right = math.Max(b.Right, lon)
	b.Top = math.Max(b.Top, lat)
}

// Combine grows the boundary box to cover another boundary box.
func (b *BoundaryBox) Combine(other BoundaryBox) {
	b.Left = math.Min(b.Left, other.Left)
	b.Bottom = math.Min(b.Bottom, other.Bottom)
	b.Right = math.Max(b.Right, other.Right)
	b.Top = math.Max(b.Top, other.Top)
}

// Intersects reports whether two boundary boxes overlap.
func (b BoundaryBox) Intersects(other BoundaryBox) bool {
	return b.Left <= other.Right && other.Left <= b.Right &&
		b.Bottom <= other.Top && other.Bottom <= b.Top
}

// Contains reports whether the point (latitude, longitude) lies inside
// the boundary box.
func (b BoundaryBox) Contains(lat, lon float64) bool {
	return lon >= b.Left && lon <= b.Right && lat >= b.Bottom && lat <= b.Top
}

// ContainsBox reports whether other lies entirely inside b.
func (b BoundaryBox) ContainsBox(other BoundaryBox) bool {
	return other.Left >= b.Left && other.Right <= b.Right &&
		other.Bottom >= b.Bottom && other.Top <= b.Top
}

func (b BoundaryBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.Left, b.Bottom, b.Right, b.Top)
}
