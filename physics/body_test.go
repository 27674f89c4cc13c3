package physics

import (
	"errors"
	"io"
	"math"
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

// boxCollider is a minimal sibling satisfying BoundsProvider
type boxCollider struct {
	engine.Base
	w, h float64
}

func (b *boxCollider) BoundingBox() vmath.Rect {
	center := vmath.Vec2{}
	if e := b.Entity(); e != nil {
		center = e.Position
	}
	return vmath.RectFromCenter(center, b.w, b.h)
}

func newBodyEntity(t *testing.T, x, y, w, h float64, body *Body) *engine.Entity {
	t.Helper()
	e := engine.NewEntity(newTestContext(), x, y)
	if err := e.AddComponent(&boxCollider{w: w, h: h}); err != nil {
		t.Fatalf("add collider: %v", err)
	}
	if err := e.AddComponent(body); err != nil {
		t.Fatalf("add body: %v", err)
	}
	return e
}

func TestNewBodyRejectsInvalidMass(t *testing.T) {
	if _, err := NewBody(0, 0, 0); !errors.Is(err, ErrInvalidMass) {
		t.Errorf("mass 0: expected ErrInvalidMass, got %v", err)
	}
	if _, err := NewBody(-1, 0, 0); !errors.Is(err, ErrInvalidMass) {
		t.Errorf("mass -1: expected ErrInvalidMass, got %v", err)
	}

	b, err := NewBody(1, 0, 0)
	if err != nil {
		t.Fatalf("valid mass rejected: %v", err)
	}
	if err := b.SetMass(-5); !errors.Is(err, ErrInvalidMass) {
		t.Errorf("SetMass(-5): expected ErrInvalidMass, got %v", err)
	}
}

func TestGravityIntegration(t *testing.T) {
	// mass=2, gravity=10, friction=0: one tick gives
	// force.y=20, accel.y=10, velocity.y=10
	body, err := NewBody(2, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	e := newBodyEntity(t, 0, 0, 10, 10, body)

	body.Tick()

	if math.Abs(body.Acceleration.Y-10) > 1e-9 {
		t.Errorf("acceleration.y = %g, want 10", body.Acceleration.Y)
	}
	if math.Abs(body.Velocity.Y-10) > 1e-9 {
		t.Errorf("velocity.y = %g, want 10", body.Velocity.Y)
	}
	if math.Abs(e.Position.Y-10) > 1e-9 {
		t.Errorf("position.y = %g, want 10", e.Position.Y)
	}
	if body.Forces() != (vmath.Vec2{}) {
		t.Errorf("force accumulator not reset: %v", body.Forces())
	}
}

func TestStaticInvariance(t *testing.T) {
	body, _ := NewBody(1, 50, 0)
	body.IsStatic = true
	e := newBodyEntity(t, 5, 5, 10, 10, body)

	for i := 0; i < 100; i++ {
		body.ApplyForce(1000, 1000)
		body.Tick()
	}

	if e.Position != vmath.V(5, 5) {
		t.Errorf("static body moved to %v", e.Position)
	}
	if body.Velocity != (vmath.Vec2{}) {
		t.Errorf("static body gained velocity %v", body.Velocity)
	}
}

func TestKinematicIgnoresForces(t *testing.T) {
	body, _ := NewBody(1, 100, 0)
	body.SetKinematic(true)
	e := newBodyEntity(t, 0, 0, 10, 10, body)

	body.ApplyForce(50, 50)
	body.ApplyImpulse(10, 10)
	body.Tick()

	if body.Velocity != (vmath.Vec2{}) {
		t.Errorf("kinematic body gained velocity %v", body.Velocity)
	}
	if e.Position != (vmath.Vec2{}) {
		t.Errorf("kinematic body moved to %v", e.Position)
	}
}

func TestTerminalVelocityClamp(t *testing.T) {
	body, _ := NewBody(1, 0, 0)
	body.TerminalVelocity = 100
	newBodyEntity(t, 0, 0, 10, 10, body)

	body.Velocity = vmath.V(300, 400) // length 500
	body.Tick()

	if math.Abs(body.Velocity.Length()-100) > 1e-9 {
		t.Errorf("speed = %g, want 100", body.Velocity.Length())
	}
	// Direction preserved: 3-4-5 ratio
	if math.Abs(body.Velocity.X-60) > 1e-9 || math.Abs(body.Velocity.Y-80) > 1e-9 {
		t.Errorf("direction changed: %v", body.Velocity)
	}
}

func TestGroundedFriction(t *testing.T) {
	body, _ := NewBody(1, 0, 0.5)
	newBodyEntity(t, 0, 0, 10, 10, body)

	body.Velocity = vmath.V(10, 0)
	body.IsGrounded = true
	body.Tick()

	if math.Abs(body.Velocity.X-5) > 1e-9 {
		t.Errorf("velocity.x = %g, want 5 after friction", body.Velocity.X)
	}
	if body.IsGrounded {
		t.Error("IsGrounded must reset after tick")
	}
}

func TestApplyImpulseScalesByMass(t *testing.T) {
	body, _ := NewBody(4, 0, 0)
	newBodyEntity(t, 0, 0, 10, 10, body)

	body.ApplyImpulse(8, 0)
	if math.Abs(body.Velocity.X-2) > 1e-9 {
		t.Errorf("velocity.x = %g, want 2", body.Velocity.X)
	}
}

func TestResolveSmallerAxisVertical(t *testing.T) {
	// Falling body lands on a floor: Y overlap is smaller, so resolve
	// pushes up, reflects velocity.y by restitution and grounds
	body, _ := NewBody(1, 0, 0)
	body.Restitution = 0.5
	e := newBodyEntity(t, 0, 8, 10, 10, body)
	body.Velocity = vmath.V(0, 4)

	floorEntity := engine.NewEntity(newTestContext(), 0, 20)
	floor := &boxCollider{w: 100, h: 10}
	_ = floorEntity.AddComponent(floor)

	// body box spans [3,13] on Y, floor box [15,25]: no overlap yet,
	// resolution must be a no-op
	body.ResolveCollision(floor)
	if e.Position.Y != 8 {
		t.Errorf("no-overlap resolve moved the body to %v", e.Position)
	}

	// Move into penetration: body at y=12 -> box [7,17], overlapY=2,
	// overlapX=100-wide floor fully covers, so Y is the smaller axis
	e.Position.Y = 12
	body.ResolveCollision(floor)

	if math.Abs(e.Position.Y-10) > 1e-9 {
		t.Errorf("position.y = %g, want 10 after separation", e.Position.Y)
	}
	if math.Abs(body.Velocity.Y+2) > 1e-9 {
		t.Errorf("velocity.y = %g, want -2 (reflected * restitution)", body.Velocity.Y)
	}
	if !body.IsGrounded {
		t.Error("downward vertical resolution must set IsGrounded")
	}
}

func TestResolveSmallerAxisHorizontal(t *testing.T) {
	body, _ := NewBody(1, 0, 0)
	body.Restitution = 1
	e := newBodyEntity(t, 8, 0, 10, 10, body)
	body.Velocity = vmath.V(6, 0)

	wallEntity := engine.NewEntity(newTestContext(), 16, 0)
	wall := &boxCollider{w: 10, h: 100}
	_ = wallEntity.AddComponent(wall)

	body.ResolveCollision(wall)

	// body box [3,13], wall box [11,21]: overlapX=2 < overlapY
	if math.Abs(e.Position.X-6) > 1e-9 {
		t.Errorf("position.x = %g, want 6 after separation", e.Position.X)
	}
	if math.Abs(body.Velocity.X+6) > 1e-9 {
		t.Errorf("velocity.x = %g, want -6", body.Velocity.X)
	}
	if body.IsGrounded {
		t.Error("horizontal resolution must not ground the body")
	}
}

func TestResolveWithoutColliderDegrades(t *testing.T) {
	body, _ := NewBody(1, 0, 0)
	e := engine.NewEntity(newTestContext(), 0, 0)
	_ = e.AddComponent(body) // no sibling collider

	other := &boxCollider{w: 10, h: 10}
	otherEntity := engine.NewEntity(newTestContext(), 0, 0)
	_ = otherEntity.AddComponent(other)

	// Degraded capability: no-op, no panic
	body.ResolveCollision(other)
	if e.Position != (vmath.Vec2{}) {
		t.Errorf("body without collider moved to %v", e.Position)
	}
}

func TestNewBodyFromConfig(t *testing.T) {
	cfg := parameter.Default().Physics
	cfg.Gravity = 3
	cfg.TerminalVelocity = 42

	body, err := NewBodyFromConfig(2, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if body.Gravity != 3 {
		t.Errorf("gravity = %g, want 3", body.Gravity)
	}
	if body.TerminalVelocity != 42 {
		t.Errorf("terminal velocity = %g, want 42", body.TerminalVelocity)
	}
	if body.Friction != parameter.DefaultFriction {
		t.Errorf("friction = %g, want %g", body.Friction, parameter.DefaultFriction)
	}

	if _, err := NewBodyFromConfig(0, cfg); err == nil {
		t.Error("non-positive mass must be rejected")
	}
}

func TestFrictionClamped(t *testing.T) {
	body, _ := NewBody(1, 0, 7)
	if body.Friction != 1 {
		t.Errorf("friction = %g, want clamp to 1", body.Friction)
	}
	body.SetFriction(-2)
	if body.Friction != 0 {
		t.Errorf("friction = %g, want clamp to 0", body.Friction)
	}
}
