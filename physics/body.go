// Package physics provides the force/velocity integrator component.
// Resolution is deliberately AABB-only and single-axis: no rotational
// dynamics, no contact manifolds, no constraint solving
package physics

import (
	"errors"
	"fmt"

	"github.com/wrenfield/simplane/engine"
	"github.com/wrenfield/simplane/parameter"
	"github.com/wrenfield/simplane/vmath"
)

// ErrInvalidMass rejects non-positive mass at the call site
var ErrInvalidMass = errors.New("mass must be greater than zero")

// BoundsProvider is the structural capability the integrator needs
// from a sibling collider. Any collider variant satisfies it
type BoundsProvider interface {
	BoundingBox() vmath.Rect
}

// Body integrates forces into velocity and position for its entity.
// The force accumulator is frame-scoped: zeroed at the end of every
// Tick. Body keeps its own velocity separate from the entity's
// kinematic state; the two integrate independently
type Body struct {
	engine.Base

	Mass             float64
	Gravity          float64
	Friction         float64 // [0, 1]
	Restitution      float64 // bounce factor on resolved collisions
	TerminalVelocity float64

	Velocity     vmath.Vec2
	Acceleration vmath.Vec2
	forces       vmath.Vec2

	// IsKinematic bodies ignore forces and gravity but stay collidable.
	// IsStatic bodies never move and never integrate.
	// IsGrounded reflects the last collision pass, reset each Tick
	IsKinematic bool
	IsStatic    bool
	IsGrounded  bool

	collider BoundsProvider
}

// NewBody creates an integrator with the given mass, gravity scale and
// friction coefficient. Mass must be positive; friction is clamped to
// [0, 1]
func NewBody(mass, gravity, friction float64) (*Body, error) {
	if mass <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidMass, mass)
	}
	return &Body{
		Mass:             mass,
		Gravity:          gravity,
		Friction:         clampFriction(friction),
		Restitution:      parameter.DefaultRestitution,
		TerminalVelocity: parameter.DefaultTerminalVelocity,
	}, nil
}

// NewBodyFromConfig creates a body whose gravity and terminal velocity
// come from the world physics configuration
func NewBodyFromConfig(mass float64, cfg parameter.PhysicsConfig) (*Body, error) {
	b, err := NewBody(mass, cfg.Gravity, parameter.DefaultFriction)
	if err != nil {
		return nil, err
	}
	b.TerminalVelocity = cfg.TerminalVelocity
	return b, nil
}

// Attach looks up the sibling collider capability. Absence is a
// degraded state, not an error: resolution becomes a no-op
func (b *Body) Attach(e *engine.Entity) {
	b.Base.Attach(e)
	if c := e.FindComponent(func(c engine.Component) bool {
		_, ok := c.(BoundsProvider)
		return ok
	}); c != nil {
		b.collider = c.(BoundsProvider)
	}
}

// Detach clears the entity and collider references
func (b *Body) Detach() {
	b.collider = nil
	b.Base.Detach()
}

// Update implements engine.Updater. Integration is frame-stepped:
// forces, velocity and position advance once per call regardless of dt
func (b *Body) Update(_ float64) {
	b.Tick()
}

// Tick advances the integrator one frame:
// gravity into forces, forces into acceleration, acceleration into
// velocity, grounded friction on the horizontal component, terminal
// velocity clamp preserving direction, velocity into position.
// Static bodies are a full no-op. Kinematic bodies skip integration
// but still clear the frame's force accumulator
func (b *Body) Tick() {
	e := b.Entity()
	if e == nil || b.IsStatic {
		return
	}

	if !b.IsKinematic {
		b.forces.Y += b.Mass * b.Gravity

		b.Acceleration = b.forces.Scale(1 / b.Mass)
		b.Velocity = b.Velocity.Add(b.Acceleration)

		if b.IsGrounded {
			b.Velocity.X *= 1 - b.Friction
		}

		b.Velocity = b.Velocity.ClampLength(b.TerminalVelocity)

		e.Position = e.Position.Add(b.Velocity)

		// Only a resolution this frame can set it true again
		b.IsGrounded = false
	}

	b.forces = vmath.Vec2{}
}

// ApplyForce accumulates a force for this frame's integration
func (b *Body) ApplyForce(fx, fy float64) {
	if b.IsKinematic {
		return
	}
	b.forces.X += fx
	b.forces.Y += fy
}

// ApplyImpulse changes velocity directly, scaled by inverse mass
func (b *Body) ApplyImpulse(ix, iy float64) {
	if b.IsKinematic {
		return
	}
	b.Velocity.X += ix / b.Mass
	b.Velocity.Y += iy / b.Mass
}

// SetVelocity overrides the body velocity
func (b *Body) SetVelocity(vx, vy float64) {
	b.Velocity = vmath.V(vx, vy)
}

// SetKinematic toggles kinematic mode, zeroing velocity and pending
// forces when enabling it
func (b *Body) SetKinematic(kinematic bool) {
	b.IsKinematic = kinematic
	if kinematic {
		b.Velocity = vmath.Vec2{}
		b.forces = vmath.Vec2{}
	}
}

// SetMass rejects non-positive mass
func (b *Body) SetMass(mass float64) error {
	if mass <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidMass, mass)
	}
	b.Mass = mass
	return nil
}

// SetFriction clamps to [0, 1]
func (b *Body) SetFriction(friction float64) {
	b.Friction = clampFriction(friction)
}

// Forces returns the pending force accumulator, exposed for tests
func (b *Body) Forces() vmath.Vec2 {
	return b.forces
}

// ResolveCollision separates the body from other along the axis of
// least AABB penetration and reflects the velocity component on that
// axis scaled by restitution. IsGrounded is set only when resolving a
// downward-facing vertical contact (own center above the other's).
//
// The overlap math is AABB regardless of the true collider shape;
// circle and polygon bodies resolve against their bounding boxes
func (b *Body) ResolveCollision(other BoundsProvider) {
	e := b.Entity()
	if e == nil || other == nil || b.collider == nil || b.IsKinematic || b.IsStatic {
		return
	}

	r1 := b.collider.BoundingBox()
	r2 := other.BoundingBox()

	overlapX, overlapY := r1.Overlap(r2)
	if overlapX <= 0 || overlapY <= 0 {
		return
	}

	c1 := r1.Center()
	c2 := r2.Center()

	if overlapX < overlapY {
		if c1.X < c2.X {
			e.Position.X -= overlapX
		} else {
			e.Position.X += overlapX
		}
		b.Velocity.X = -b.Velocity.X * b.Restitution
	} else {
		if c1.Y < c2.Y {
			// Landing on top of the other collider (Y grows downward)
			e.Position.Y -= overlapY
			b.IsGrounded = true
		} else {
			e.Position.Y += overlapY
		}
		b.Velocity.Y = -b.Velocity.Y * b.Restitution
	}
}

func clampFriction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
