package vmath

// Exact geometric primitives backing the collision narrow phase.
// All polygon inputs are world-space vertex slices in winding order.

// PointInPolygon tests containment via ray casting with the even-odd
// rule. A horizontal ray is cast from p towards +X; an odd number of
// edge crossings means the point is inside
func PointInPolygon(p Vec2, verts []Vec2) bool {
	n := len(verts)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := verts[i], verts[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			// X coordinate where the edge crosses the ray's Y
			crossX := (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y) + vi.X
			if p.X < crossX {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// PointSegmentDistance returns the distance from p to segment [a, b]
// using the closest point found by clamped projection
func PointSegmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		// Degenerate segment
		return p.DistanceTo(a)
	}

	t := p.Sub(a).Dot(ab) / lenSq
	t = max(0, min(1, t))
	closest := a.Add(ab.Scale(t))
	return p.DistanceTo(closest)
}

// orientation classifies the turn a->b->c: 0 collinear, 1 clockwise,
// 2 counter-clockwise
func orientation(a, b, c Vec2) int {
	cross := b.Sub(a).Cross(c.Sub(a))
	if cross == 0 {
		return 0
	}
	if cross < 0 {
		return 1
	}
	return 2
}

// onSegment reports whether collinear point p lies on segment [a, b]
func onSegment(a, p, b Vec2) bool {
	return p.X <= max(a.X, b.X) && p.X >= min(a.X, b.X) &&
		p.Y <= max(a.Y, b.Y) && p.Y >= min(a.Y, b.Y)
}

// SegmentsIntersect reports whether segments [a1, a2] and [b1, b2]
// cross. Orientation sign test only, no intersection point computed.
// Collinear overlaps count as intersection
func SegmentsIntersect(a1, a2, b1, b2 Vec2) bool {
	o1 := orientation(a1, a2, b1)
	o2 := orientation(a1, a2, b2)
	o3 := orientation(b1, b2, a1)
	o4 := orientation(b1, b2, a2)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear special cases
	if o1 == 0 && onSegment(a1, b1, a2) {
		return true
	}
	if o2 == 0 && onSegment(a1, b2, a2) {
		return true
	}
	if o3 == 0 && onSegment(b1, a1, b2) {
		return true
	}
	if o4 == 0 && onSegment(b1, a2, b2) {
		return true
	}
	return false
}

// PolygonsIntersect reports overlap between two polygons: true when
// any vertex of either polygon lies inside the other, or any edge
// pair crosses. The vertex containment check covers full containment
// of one polygon by the other
func PolygonsIntersect(va, vb []Vec2) bool {
	for _, p := range va {
		if PointInPolygon(p, vb) {
			return true
		}
	}
	for _, p := range vb {
		if PointInPolygon(p, va) {
			return true
		}
	}

	na, nb := len(va), len(vb)
	for i := 0; i < na; i++ {
		a1, a2 := va[i], va[(i+1)%na]
		for j := 0; j < nb; j++ {
			if SegmentsIntersect(a1, a2, vb[j], vb[(j+1)%nb]) {
				return true
			}
		}
	}
	return false
}

// CirclePolygonIntersect reports overlap between a circle and a
// polygon: center containment, or any edge within radius
func CirclePolygonIntersect(center Vec2, radius float64, verts []Vec2) bool {
	if PointInPolygon(center, verts) {
		return true
	}

	n := len(verts)
	for i := 0; i < n; i++ {
		if PointSegmentDistance(center, verts[i], verts[(i+1)%n]) <= radius {
			return true
		}
	}
	return false
}

// PolygonBounds returns the AABB enclosing a vertex set
func PolygonBounds(verts []Vec2) Rect {
	if len(verts) == 0 {
		return Rect{}
	}

	r := Rect{Min: verts[0], Max: verts[0]}
	for _, v := range verts[1:] {
		r.Min.X = min(r.Min.X, v.X)
		r.Min.Y = min(r.Min.Y, v.Y)
		r.Max.X = max(r.Max.X, v.X)
		r.Max.Y = max(r.Max.Y, v.Y)
	}
	return r
}
