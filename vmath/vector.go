package vmath

import "math"

// Vec2 is a 2D vector in world units. Value type, safe to copy
type Vec2 struct {
	X, Y float64
}

// V is shorthand for constructing a Vec2
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale multiplies both components by a scalar factor
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns v·o
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z-component of the 3D cross product.
// Sign gives winding: positive = counter-clockwise turn
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSq returns squared magnitude without sqrt
func (v Vec2) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector, zero-safe
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// ClampLength limits the vector to maxLen while preserving direction.
// Returns the vector unchanged if its magnitude <= maxLen
func (v Vec2) ClampLength(maxLen float64) Vec2 {
	l := v.Length()
	if l <= maxLen || l == 0 {
		return v
	}
	s := maxLen / l
	return Vec2{v.X * s, v.Y * s}
}

// Rotate rotates the vector by angle radians counter-clockwise
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// DistanceTo returns the Euclidean distance between two points
func (v Vec2) DistanceTo(o Vec2) float64 {
	return o.Sub(v).Length()
}
