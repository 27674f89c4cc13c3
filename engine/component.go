package engine

import (
	"github.com/gdamore/tcell/v2"

	"github.com/wrenfield/simplane/event"
	"github.com/wrenfield/simplane/vmath"
)

// Component is a behavior capability owned by exactly one entity.
// Concrete components embed Base and opt into per-frame hooks by
// implementing Updater, Renderer or EventHandler; capability absence
// is a structural case, not a runtime probe
type Component interface {
	// Attach is called after the component is registered on an entity
	Attach(*Entity)

	// Detach is called when the component is removed; the entity
	// reference must be cleared
	Detach()

	// Enabled gates whether any hooks run
	Enabled() bool
}

// Updater is implemented by components with per-frame update logic
type Updater interface {
	Update(dt float64)
}

// Renderer is implemented by components that draw to the debug surface
type Renderer interface {
	Render(screen tcell.Screen, camera vmath.Vec2)
}

// EventHandler is implemented by components that react to kernel events
type EventHandler interface {
	HandleEvent(ev event.Event)
}

// Base provides the entity back-reference and enabled flag shared by
// all components. Zero value starts enabled once attached
type Base struct {
	entity  *Entity
	disable bool
}

// Attach stores the owning entity reference
func (b *Base) Attach(e *Entity) {
	b.entity = e
}

// Detach clears the owning entity reference
func (b *Base) Detach() {
	b.entity = nil
}

// Entity returns the owning entity, nil when detached
func (b *Base) Entity() *Entity {
	return b.entity
}

// Enabled reports whether hooks should run
func (b *Base) Enabled() bool {
	return !b.disable
}

// SetEnabled toggles hook execution without detaching
func (b *Base) SetEnabled(enabled bool) {
	b.disable = !enabled
}
