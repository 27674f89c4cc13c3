package engine

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/wrenfield/simplane/event"
	"github.com/wrenfield/simplane/vmath"
)

// ErrDuplicateComponent is returned when adding a component whose
// capability type is already registered on the entity
var ErrDuplicateComponent = errors.New("duplicate component")

// ID uniquely identifies an entity for its lifetime
type ID uint64

var nextEntityID atomic.Uint64

// Entity owns a set of components keyed by capability type plus its
// own kinematic state. The component map is guarded by its own mutex;
// the optional update mutex serializes a full update pass when
// thread-safe mode is on.
//
// Locking discipline: no lock is ever held while component code runs.
// Hooks are invoked on a snapshot taken under the component lock, so a
// hook may freely add or remove components (on this or other entities)
// without deadlocking
type Entity struct {
	id ID

	Position     vmath.Vec2
	Velocity     vmath.Vec2
	Acceleration vmath.Vec2

	Active  bool
	Visible bool

	ctx   *Context
	scene Scene // non-owning back-reference, set by the scene

	dt float64 // per-frame delta set by the scheduler

	threadSafe bool
	updateMu   sync.Mutex

	compMu     sync.Mutex
	components map[reflect.Type]Component
}

// NewEntity creates an active, visible entity at (x, y)
func NewEntity(ctx *Context, x, y float64) *Entity {
	e := &Entity{
		id:         ID(nextEntityID.Add(1)),
		Position:   vmath.V(x, y),
		Active:     true,
		Visible:    true,
		ctx:        ctx,
		components: make(map[reflect.Type]Component),
	}
	if ctx != nil {
		e.threadSafe = ctx.Config.Engine.ThreadSafeEntities
	}
	return e
}

// ID returns the entity's stable identity
func (e *Entity) ID() ID {
	return e.id
}

// Context returns the kernel context the entity was created with
func (e *Entity) Context() *Context {
	return e.ctx
}

// Scene returns the owning scene, nil when detached
func (e *Entity) Scene() Scene {
	return e.scene
}

// SetScene is called by the owning scene on add/remove
func (e *Entity) SetScene(s Scene) {
	e.scene = s
}

// SetDelta stores the frame delta-time, called once per frame by the
// scheduler before Update
func (e *Entity) SetDelta(dt float64) {
	e.dt = dt
}

// Delta returns the current frame delta-time
func (e *Entity) Delta() float64 {
	return e.dt
}

// AddComponent registers a component under its concrete type and calls
// its attach hook. Fails with ErrDuplicateComponent when a component of
// the same capability type is already present
func (e *Entity) AddComponent(c Component) error {
	t := reflect.TypeOf(c)

	e.compMu.Lock()
	if _, exists := e.components[t]; exists {
		e.compMu.Unlock()
		return fmt.Errorf("%w: %s on entity %d", ErrDuplicateComponent, t, e.id)
	}
	e.components[t] = c
	e.compMu.Unlock()

	// Attach outside the lock: attach hooks may query sibling components
	c.Attach(e)
	return nil
}

// GetComponent returns the component registered under t, nil if absent
func (e *Entity) GetComponent(t reflect.Type) Component {
	e.compMu.Lock()
	defer e.compMu.Unlock()
	return e.components[t]
}

// Get returns the entity's component of concrete type T
func Get[T Component](e *Entity) (T, bool) {
	c := e.GetComponent(reflect.TypeFor[T]())
	if c == nil {
		var zero T
		return zero, false
	}
	return c.(T), true
}

// HasComponent reports whether a component of type t is registered
func (e *Entity) HasComponent(t reflect.Type) bool {
	e.compMu.Lock()
	defer e.compMu.Unlock()
	_, ok := e.components[t]
	return ok
}

// RemoveComponent detaches and removes the component of type t.
// No-op when absent
func (e *Entity) RemoveComponent(t reflect.Type) {
	e.compMu.Lock()
	c, ok := e.components[t]
	if ok {
		delete(e.components, t)
	}
	e.compMu.Unlock()

	if ok {
		c.Detach()
	}
}

// FindComponent returns the first component satisfying pred, in
// unspecified order. Used for structural capability lookup across
// concrete types
func (e *Entity) FindComponent(pred func(Component) bool) Component {
	for _, c := range e.snapshotComponents() {
		if pred(c) {
			return c
		}
	}
	return nil
}

// ComponentCount returns the number of registered components
func (e *Entity) ComponentCount() int {
	e.compMu.Lock()
	defer e.compMu.Unlock()
	return len(e.components)
}

// snapshotComponents copies the component list under the component
// lock so hooks can be invoked with no lock held
func (e *Entity) snapshotComponents() []Component {
	e.compMu.Lock()
	snapshot := make([]Component, 0, len(e.components))
	for _, c := range e.components {
		snapshot = append(snapshot, c)
	}
	e.compMu.Unlock()
	return snapshot
}

// Update integrates the entity's own kinematics and runs every enabled
// Updater component. No-op when inactive. A panicking component is
// logged and isolated; sibling components still run
func (e *Entity) Update() {
	if !e.Active {
		return
	}

	if e.threadSafe {
		e.updateMu.Lock()
		defer e.updateMu.Unlock()
	}

	dt := e.dt
	e.Velocity = e.Velocity.Add(e.Acceleration.Scale(dt))
	e.Position = e.Position.Add(e.Velocity.Scale(dt))

	for _, c := range e.snapshotComponents() {
		if u, ok := c.(Updater); ok && c.Enabled() {
			e.invoke(c, "update", func() { u.Update(dt) })
		}
	}
}

// Render draws every enabled Renderer component. No-op when invisible
func (e *Entity) Render(screen tcell.Screen, camera vmath.Vec2) {
	if !e.Visible {
		return
	}

	for _, c := range e.snapshotComponents() {
		if r, ok := c.(Renderer); ok && c.Enabled() {
			e.invoke(c, "render", func() { r.Render(screen, camera) })
		}
	}
}

// HandleEvent forwards ev to every enabled EventHandler component
func (e *Entity) HandleEvent(ev event.Event) {
	for _, c := range e.snapshotComponents() {
		if h, ok := c.(EventHandler); ok && c.Enabled() {
			e.invoke(c, "event", func() { h.HandleEvent(ev) })
		}
	}
}

// invoke runs a component hook with panic containment. Faults are
// logged with entity and component identity and never propagate
func (e *Entity) invoke(c Component, hook string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if e.ctx != nil && e.ctx.Log != nil {
				e.ctx.Log.Error("component fault",
					"entity", e.id,
					"component", reflect.TypeOf(c).String(),
					"hook", hook,
					"panic", r)
			}
		}
	}()
	fn()
}
