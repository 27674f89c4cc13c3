package vmath

// Rect is an axis-aligned bounding box defined by min/max corners
type Rect struct {
	Min, Max Vec2
}

// RectFromCenter builds a Rect from a center point and full dimensions
func RectFromCenter(center Vec2, w, h float64) Rect {
	half := Vec2{w / 2, h / 2}
	return Rect{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

func (r Rect) Center() Vec2 {
	return Vec2{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Intersects reports AABB overlap. Touching edges do not count
func (r Rect) Intersects(o Rect) bool {
	if r.Min.X >= o.Max.X || o.Min.X >= r.Max.X {
		return false
	}
	if r.Min.Y >= o.Max.Y || o.Min.Y >= r.Max.Y {
		return false
	}
	return true
}

// Overlap returns the penetration depth along each axis.
// Both values are positive only when the rects actually intersect
func (r Rect) Overlap(o Rect) (x, y float64) {
	x = min(r.Max.X, o.Max.X) - max(r.Min.X, o.Min.X)
	y = min(r.Max.Y, o.Max.Y) - max(r.Min.Y, o.Min.Y)
	return x, y
}

// ContainsPoint reports whether p lies inside the rect.
// Min edges inclusive, max edges exclusive
func (r Rect) ContainsPoint(p Vec2) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// ClosestPoint returns the point inside the rect nearest to p
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return Vec2{
		X: max(r.Min.X, min(p.X, r.Max.X)),
		Y: max(r.Min.Y, min(p.Y, r.Max.Y)),
	}
}

// Corners returns the four corners in counter-clockwise order
func (r Rect) Corners() [4]Vec2 {
	return [4]Vec2{
		{r.Min.X, r.Min.Y},
		{r.Max.X, r.Min.Y},
		{r.Max.X, r.Max.Y},
		{r.Min.X, r.Max.Y},
	}
}
