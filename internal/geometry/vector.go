package geometry

import "math"

// Vector is a point or direction in pixel space. The y axis points
// down, matching SVG coordinates.
type Vector struct {
	X float64
	Y float64
}

// Add returns the component-wise sum of two vectors.
func (v Vector) Add(other Vector) Vector {
	return Vector{v.X + other.X, v.Y + other.Y}
}

// Sub returns the component-wise difference of two vectors.
func (v Vector) Sub(other Vector) Vector {
	return Vector{v.X - other.X, v.Y - other.Y}
}

// Scale returns the vector multiplied by a scalar.
func (v Vector) Scale(factor float64) Vector {
	return Vector{v.X * factor, v.Y * factor}
}

// Length returns the Euclidean norm of the vector.
func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalized returns the unit vector in the direction of v, or the
// zero vector if v has zero length.
func (v Vector) Normalized() Vector {
	length := v.Length()
	if length == 0 {
		return Vector{}
	}
	return Vector{v.X / length, v.Y / length}
}

// Angle returns the angle of the vector in radians, measured
// counterclockwise from the positive x axis in the range (-pi, pi].
func (v Vector) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotate returns the vector rotated by the given angle in radians.
func (v Vector) Rotate(angle float64) Vector {
	sin, cos := math.Sincos(angle)
	return Vector{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Perpendicular returns the vector rotated by 90 degrees.
func (v Vector) Perpendicular() Vector {
	return Vector{-v.Y, v.X}
}

// Segment is a directed line segment between two projected points. Its
// derived fields drive wall shading and back-to-front ordering of
// extruded building walls.
type Segment struct {
	A Vector
	B Vector

	// Angle is the segment direction relative to the vertical axis,
	// normalized to [0, 1]. Walls facing different directions get
	// different luminance from it.
	Angle float64

	// MidY is the y coordinate of the segment midpoint, used to sort
	// walls so nearer ones are drawn over farther ones.
	MidY float64
}

// NewSegment constructs a segment and computes its shading angle and
// sort key.
func NewSegment(a, b Vector) Segment {
	direction := b.Sub(a).Normalized()
	angle := math.Acos(direction.Y) / math.Pi
	return Segment{A: a, B: b, Angle: angle, MidY: (a.Y + b.Y) / 2.0}
}
