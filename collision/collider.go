// Package collision implements the collision subsystem: shape
// colliders with layer/mask filtering, the uniform spatial grid broad
// phase and the per-frame orchestrating System.
package collision

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/wrenfield/simplane/engine"
	"github.com/wrenfield/simplane/parameter"
	"github.com/wrenfield/simplane/vmath"
)

// ErrInvalidPolygon rejects polygon colliders with fewer than 3 vertices
var ErrInvalidPolygon = errors.New("polygon collider needs at least 3 vertices")

// Collider is the shared surface of the three shape variants. Checks
// are order-independent: A.CheckCollision(B) == B.CheckCollision(A)
type Collider interface {
	engine.Component

	// BoundingBox returns the world-space AABB of the shape
	BoundingBox() vmath.Rect

	// CheckCollision runs layer filtering then exact geometry against
	// the other collider. Filtering is symmetric and mandatory: both
	// masks must admit the other's layer before any geometry runs
	CheckCollision(other Collider) bool

	Layer() uint8
	Mask() uint32
	IsTrigger() bool
	Owner() *engine.Entity

	// OnCollisionEnter and OnCollisionExit maintain the touching set
	// and fire user callbacks. Called only by the collision System,
	// exactly once per transition
	OnCollisionEnter(other *engine.Entity)
	OnCollisionExit(other *engine.Entity)

	// Collided fires the per-overlap user callback each frame the
	// overlap persists
	Collided(other *engine.Entity)

	// DebugDraw renders the collider outline to a terminal surface.
	// Visualization only, never consulted for simulation state
	DebugDraw(screen tcell.Screen, camera vmath.Vec2)
}

// Base carries the state common to all collider variants: offset from
// the entity origin, layer/mask filtering, trigger flag, the touching
// set and the user callbacks.
//
// The touching set is a cache maintained by the System's enter/exit
// calls; the System's pair set is the source of truth. It is written
// only from the single-threaded collision phase, so it needs no lock
type Base struct {
	engine.Base

	Offset vmath.Vec2

	layer   uint8  // exactly one bit of identity, 0-31
	mask    uint32 // layers this collider tests against
	trigger bool

	touching map[engine.ID]struct{}

	// Optional user hooks, invoked by the System
	OnEnter     func(other *engine.Entity)
	OnExit      func(other *engine.Entity)
	OnCollision func(other *engine.Entity)
}

func newBase(trigger bool) Base {
	return Base{
		trigger:  trigger,
		mask:     1, // collide with layer 0 by default
		touching: make(map[engine.ID]struct{}),
	}
}

// Owner returns the entity the collider is attached to
func (b *Base) Owner() *engine.Entity {
	return b.Entity()
}

// worldCenter is the entity position plus offset, or just the offset
// while detached
func (b *Base) worldCenter() vmath.Vec2 {
	if e := b.Entity(); e != nil {
		return e.Position.Add(b.Offset)
	}
	return b.Offset
}

// Layer returns the collider's identity layer
func (b *Base) Layer() uint8 {
	return b.layer
}

// SetLayer clamps to the valid 0-31 range
func (b *Base) SetLayer(layer int) {
	if layer < 0 {
		layer = 0
	}
	if layer > parameter.MaxCollisionLayer {
		layer = parameter.MaxCollisionLayer
	}
	b.layer = uint8(layer)
}

// Mask returns the bitset of layers this collider tests against
func (b *Base) Mask() uint32 {
	return b.mask
}

// SetMask replaces the layer bitset
func (b *Base) SetMask(mask uint32) {
	b.mask = mask
}

// IsTrigger reports whether the collider detects without resolving
func (b *Base) IsTrigger() bool {
	return b.trigger
}

// SetTrigger toggles trigger behavior
func (b *Base) SetTrigger(trigger bool) {
	b.trigger = trigger
}

// OnCollisionEnter records the touching entity and fires the user hook
func (b *Base) OnCollisionEnter(other *engine.Entity) {
	b.touching[other.ID()] = struct{}{}
	if b.OnEnter != nil {
		b.OnEnter(other)
	}
}

// OnCollisionExit forgets the touching entity and fires the user hook
func (b *Base) OnCollisionExit(other *engine.Entity) {
	delete(b.touching, other.ID())
	if b.OnExit != nil {
		b.OnExit(other)
	}
}

// Collided fires the per-overlap user hook
func (b *Base) Collided(other *engine.Entity) {
	if b.OnCollision != nil {
		b.OnCollision(other)
	}
}

// IsTouching consults the touching cache
func (b *Base) IsTouching(id engine.ID) bool {
	_, ok := b.touching[id]
	return ok
}

// TouchingCount returns the size of the touching cache
func (b *Base) TouchingCount() int {
	return len(b.touching)
}

// filterAllows applies the symmetric layer/mask test. Runs before any
// geometry on every check
func filterAllows(a, b Collider) bool {
	return a.Mask()&(1<<b.Layer()) != 0 && b.Mask()&(1<<a.Layer()) != 0
}

// ColliderOf returns the entity's collider regardless of its concrete
// variant, nil when absent
func ColliderOf(e *engine.Entity) Collider {
	c := e.FindComponent(func(c engine.Component) bool {
		_, ok := c.(Collider)
		return ok
	})
	if c == nil {
		return nil
	}
	return c.(Collider)
}
