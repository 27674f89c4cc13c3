package collision

import (
	"github.com/wrenfield/simplane/vmath"
)

// Rect is an axis-aligned rectangle collider centered on the entity
// position plus offset
type Rect struct {
	Base
	Width, Height float64
}

// NewRect creates a solid rectangle collider
func NewRect(width, height float64) *Rect {
	return &Rect{Base: newBase(false), Width: width, Height: height}
}

// NewRectTrigger creates a rectangle collider that detects without
// resolving
func NewRectTrigger(width, height float64) *Rect {
	return &Rect{Base: newBase(true), Width: width, Height: height}
}

// BoundingBox returns the world-space box
func (r *Rect) BoundingBox() vmath.Rect {
	return vmath.RectFromCenter(r.worldCenter(), r.Width, r.Height)
}

// CheckCollision dispatches on the other shape variant
func (r *Rect) CheckCollision(other Collider) bool {
	if !filterAllows(r, other) {
		return false
	}
	switch o := other.(type) {
	case *Rect:
		return rectRect(r, o)
	case *Circle:
		return rectCircle(r, o)
	case *Polygon:
		return rectPolygon(r, o)
	}
	return false
}

// Circle is a circle collider centered on the entity position plus
// offset
type Circle struct {
	Base
	Radius float64
}

// NewCircle creates a solid circle collider
func NewCircle(radius float64) *Circle {
	return &Circle{Base: newBase(false), Radius: radius}
}

// BoundingBox returns the AABB enclosing the circle
func (c *Circle) BoundingBox() vmath.Rect {
	return vmath.RectFromCenter(c.worldCenter(), c.Radius*2, c.Radius*2)
}

func (c *Circle) CheckCollision(other Collider) bool {
	if !filterAllows(c, other) {
		return false
	}
	switch o := other.(type) {
	case *Rect:
		return rectCircle(o, c)
	case *Circle:
		return circleCircle(c, o)
	case *Polygon:
		return circlePolygon(c, o)
	}
	return false
}

// Polygon is an arbitrary rotatable polygon collider. Local vertices
// are fixed at construction; the rotated copy is cached and recomputed
// only when the rotation changes
type Polygon struct {
	Base

	local    []vmath.Vec2
	rotation float64

	rotated []vmath.Vec2 // cache, valid until the next Rotate/SetRotation
	dirty   bool
}

// NewPolygon creates a polygon collider from local-space vertices in
// winding order. Fails fast below 3 vertices
func NewPolygon(verts []vmath.Vec2) (*Polygon, error) {
	if len(verts) < 3 {
		return nil, ErrInvalidPolygon
	}
	local := make([]vmath.Vec2, len(verts))
	copy(local, verts)
	return &Polygon{
		Base:    newBase(false),
		local:   local,
		rotated: local,
	}, nil
}

// Rotation returns the current rotation in radians
func (p *Polygon) Rotation() float64 {
	return p.rotation
}

// Rotate adds delta radians and invalidates the rotated vertex cache
func (p *Polygon) Rotate(delta float64) {
	p.SetRotation(p.rotation + delta)
}

// SetRotation replaces the rotation and invalidates the cache when the
// value actually changes
func (p *Polygon) SetRotation(rad float64) {
	if rad == p.rotation {
		return
	}
	p.rotation = rad
	p.dirty = true
}

// rotatedLocal returns the rotation-applied local vertices, rebuilding
// the cache only after a rotation change
func (p *Polygon) rotatedLocal() []vmath.Vec2 {
	if p.dirty {
		out := make([]vmath.Vec2, len(p.local))
		for i, v := range p.local {
			out[i] = v.Rotate(p.rotation)
		}
		p.rotated = out
		p.dirty = false
	}
	return p.rotated
}

// WorldVertices returns the polygon in world space: entity position +
// offset + cached rotated local vertex
func (p *Polygon) WorldVertices() []vmath.Vec2 {
	center := p.worldCenter()
	rotated := p.rotatedLocal()
	out := make([]vmath.Vec2, len(rotated))
	for i, v := range rotated {
		out[i] = center.Add(v)
	}
	return out
}

// BoundingBox returns the AABB enclosing the world vertices
func (p *Polygon) BoundingBox() vmath.Rect {
	return vmath.PolygonBounds(p.WorldVertices())
}

func (p *Polygon) CheckCollision(other Collider) bool {
	if !filterAllows(p, other) {
		return false
	}
	switch o := other.(type) {
	case *Rect:
		return rectPolygon(o, p)
	case *Circle:
		return circlePolygon(o, p)
	case *Polygon:
		return vmath.PolygonsIntersect(p.WorldVertices(), o.WorldVertices())
	}
	return false
}

// Shape-pair primitives. Each pair has exactly one implementation so
// both dispatch directions agree

func rectRect(a, b *Rect) bool {
	return a.BoundingBox().Intersects(b.BoundingBox())
}

func rectCircle(r *Rect, c *Circle) bool {
	center := c.worldCenter()
	closest := r.BoundingBox().ClosestPoint(center)
	return center.DistanceTo(closest) < c.Radius
}

func circleCircle(a, b *Circle) bool {
	dist := a.worldCenter().DistanceTo(b.worldCenter())
	return dist < a.Radius+b.Radius
}

func rectPolygon(r *Rect, p *Polygon) bool {
	corners := r.BoundingBox().Corners()
	return vmath.PolygonsIntersect(corners[:], p.WorldVertices())
}

func circlePolygon(c *Circle, p *Polygon) bool {
	return vmath.CirclePolygonIntersect(c.worldCenter(), c.Radius, p.WorldVertices())
}
