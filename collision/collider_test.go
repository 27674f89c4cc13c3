package collision

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/wrenfield/simplane/engine"
	"github.com/wrenfield/simplane/parameter"
	"github.com/wrenfield/simplane/vmath"
)

func newTestContext() *engine.Context {
	ctx := engine.NewContext(parameter.Default())
	ctx.Log = log.New(io.Discard)
	return ctx
}

// attach binds a collider to a fresh entity at (x, y)
func attach(t *testing.T, ctx *engine.Context, c engine.Component, x, y float64) *engine.Entity {
	t.Helper()
	e := engine.NewEntity(ctx, x, y)
	if err := e.AddComponent(c); err != nil {
		t.Fatalf("add collider: %v", err)
	}
	return e
}

func TestRectRectOverlap(t *testing.T) {
	ctx := newTestContext()

	a := NewRect(40, 40)
	b := NewRect(40, 40)
	attach(t, ctx, a, 0, 0)
	attach(t, ctx, b, 30, 0)

	if !a.CheckCollision(b) {
		t.Error("40x40 rects at (0,0) and (30,0) must collide")
	}

	c := NewRect(40, 40)
	attach(t, ctx, c, 50, 0)
	if a.CheckCollision(c) {
		t.Error("40x40 rects at (0,0) and (50,0) must not collide")
	}
}

func TestCircleCircleStrictBoundary(t *testing.T) {
	ctx := newTestContext()

	a := NewCircle(10)
	attach(t, ctx, a, 0, 0)

	near := NewCircle(10)
	attach(t, ctx, near, 19, 0)
	if !a.CheckCollision(near) {
		t.Error("distance 19 < radii sum 20 must collide")
	}

	far := NewCircle(10)
	attach(t, ctx, far, 21, 0)
	if a.CheckCollision(far) {
		t.Error("distance 21 > radii sum 20 must not collide")
	}

	// Exact tangency is not a collision
	tangent := NewCircle(10)
	attach(t, ctx, tangent, 20, 0)
	if a.CheckCollision(tangent) {
		t.Error("distance exactly equal to the radii sum must not collide")
	}
}

func TestRectCircleClosestPoint(t *testing.T) {
	ctx := newTestContext()

	r := NewRect(20, 20) // box [-10,10] both axes
	attach(t, ctx, r, 0, 0)

	// Diagonal circle: closest corner (10,10), center (14,14),
	// distance ~5.66 < 6
	hit := NewCircle(6)
	attach(t, ctx, hit, 14, 14)
	if !r.CheckCollision(hit) {
		t.Error("circle reaching the corner must collide")
	}

	miss := NewCircle(5)
	attach(t, ctx, miss, 14, 14)
	if r.CheckCollision(miss) {
		t.Error("circle short of the corner must not collide")
	}
}

func TestPolygonNeedsThreeVertices(t *testing.T) {
	_, err := NewPolygon([]vmath.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if !errors.Is(err, ErrInvalidPolygon) {
		t.Errorf("expected ErrInvalidPolygon, got %v", err)
	}
}

func TestPolygonCollisions(t *testing.T) {
	ctx := newTestContext()

	tri, err := NewPolygon([]vmath.Vec2{{X: -10, Y: 10}, {X: 10, Y: 10}, {X: 0, Y: -10}})
	if err != nil {
		t.Fatal(err)
	}
	attach(t, ctx, tri, 0, 0)

	r := NewRect(10, 10)
	attach(t, ctx, r, 5, 5)
	if !tri.CheckCollision(r) {
		t.Error("rect overlapping the triangle must collide")
	}

	farRect := NewRect(10, 10)
	attach(t, ctx, farRect, 50, 50)
	if tri.CheckCollision(farRect) {
		t.Error("distant rect must not collide")
	}

	c := NewCircle(3)
	attach(t, ctx, c, 0, 5)
	if !tri.CheckCollision(c) {
		t.Error("circle inside the triangle must collide")
	}

	other, _ := NewPolygon([]vmath.Vec2{{X: -5, Y: 5}, {X: 5, Y: 5}, {X: 0, Y: -5}})
	attach(t, ctx, other, 2, 2)
	if !tri.CheckCollision(other) {
		t.Error("overlapping polygons must collide")
	}
}

func TestCheckCollisionSymmetry(t *testing.T) {
	ctx := newTestContext()

	r := NewRect(20, 20)
	attach(t, ctx, r, 0, 0)
	c := NewCircle(8)
	attach(t, ctx, c, 15, 0)
	p, _ := NewPolygon([]vmath.Vec2{{X: -8, Y: 8}, {X: 8, Y: 8}, {X: 0, Y: -8}})
	attach(t, ctx, p, 5, 5)

	pairs := []struct {
		name string
		a, b Collider
	}{
		{"rect-circle", r, c},
		{"rect-polygon", r, p},
		{"circle-polygon", c, p},
	}
	for _, pair := range pairs {
		t.Run(pair.name, func(t *testing.T) {
			if pair.a.CheckCollision(pair.b) != pair.b.CheckCollision(pair.a) {
				t.Error("check must be order-independent")
			}
		})
	}
}

func TestLayerMaskFiltering(t *testing.T) {
	ctx := newTestContext()

	a := NewRect(40, 40)
	b := NewRect(40, 40)
	attach(t, ctx, a, 0, 0)
	attach(t, ctx, b, 10, 0)

	// Defaults: layer 0, mask 1 -> geometric overlap collides
	if !a.CheckCollision(b) {
		t.Fatal("default layer/mask must admit the overlap")
	}

	// Move b to layer 3; a's mask does not include layer 3
	b.SetLayer(3)
	if a.CheckCollision(b) {
		t.Error("a's mask excludes b's layer, check must fail")
	}

	// Admit one direction only: still filtered, both masks must agree
	a.SetMask(1 | 1<<3)
	b.SetMask(0)
	if a.CheckCollision(b) {
		t.Error("filtering is symmetric, one admitting mask is not enough")
	}
	if b.CheckCollision(a) {
		t.Error("filtering must fail identically in either order")
	}

	// Both masks admit the other's layer
	b.SetMask(1)
	if !a.CheckCollision(b) || !b.CheckCollision(a) {
		t.Error("mutually admitting masks must pass the filter")
	}
}

func TestSetLayerClamped(t *testing.T) {
	c := NewRect(1, 1)
	c.SetLayer(99)
	if c.Layer() != parameter.MaxCollisionLayer {
		t.Errorf("layer = %d, want clamp to %d", c.Layer(), parameter.MaxCollisionLayer)
	}
	c.SetLayer(-1)
	if c.Layer() != 0 {
		t.Errorf("layer = %d, want clamp to 0", c.Layer())
	}
}

func TestColliderOffset(t *testing.T) {
	ctx := newTestContext()

	a := NewRect(10, 10)
	attach(t, ctx, a, 0, 0)
	a.Offset = vmath.V(100, 0)

	bb := a.BoundingBox()
	if bb.Center() != vmath.V(100, 0) {
		t.Errorf("bounding box center = %v, want offset applied", bb.Center())
	}
}

func TestPolygonRotationCache(t *testing.T) {
	ctx := newTestContext()

	p, _ := NewPolygon([]vmath.Vec2{{X: 10, Y: 0}, {X: -10, Y: 5}, {X: -10, Y: -5}})
	attach(t, ctx, p, 0, 0)

	before := p.WorldVertices()
	if before[0] != vmath.V(10, 0) {
		t.Fatalf("unrotated vertex = %v", before[0])
	}

	p.Rotate(3.14159265358979)
	after := p.WorldVertices()
	if after[0].DistanceTo(vmath.V(-10, 0)) > 1e-6 {
		t.Errorf("half-turn vertex = %v, want near (-10, 0)", after[0])
	}

	// Setting the identical rotation must not rebuild or change anything
	rot := p.Rotation()
	p.SetRotation(rot)
	same := p.WorldVertices()
	if same[0] != after[0] {
		t.Error("no-op rotation changed the world vertices")
	}
}

func TestTriggerFlag(t *testing.T) {
	solid := NewRect(1, 1)
	if solid.IsTrigger() {
		t.Error("NewRect must produce a solid collider")
	}
	tr := NewRectTrigger(1, 1)
	if !tr.IsTrigger() {
		t.Error("NewRectTrigger must produce a trigger")
	}
	solid.SetTrigger(true)
	if !solid.IsTrigger() {
		t.Error("SetTrigger(true) not applied")
	}
}

func TestTouchingSet(t *testing.T) {
	ctx := newTestContext()

	a := NewRect(10, 10)
	attach(t, ctx, a, 0, 0)
	other := engine.NewEntity(ctx, 5, 0)

	a.OnCollisionEnter(other)
	if !a.IsTouching(other.ID()) || a.TouchingCount() != 1 {
		t.Error("enter must record the touching entity")
	}
	a.OnCollisionExit(other)
	if a.IsTouching(other.ID()) || a.TouchingCount() != 0 {
		t.Error("exit must forget the touching entity")
	}
}

func TestColliderOf(t *testing.T) {
	ctx := newTestContext()

	e := engine.NewEntity(ctx, 0, 0)
	if ColliderOf(e) != nil {
		t.Error("entity without a collider must yield nil")
	}

	c := NewCircle(5)
	_ = e.AddComponent(c)
	if ColliderOf(e) != Collider(c) {
		t.Error("ColliderOf must find the attached collider")
	}
}
