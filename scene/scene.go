// Package scene owns entity lifecycle and per-frame orchestration:
// the parallel update phase runs first, then the single-threaded
// collision phase, in strict sequence
package scene

import (
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/wrenfield/simplane/collision"
	"github.com/wrenfield/simplane/engine"
	"github.com/wrenfield/simplane/event"
	"github.com/wrenfield/simplane/vmath"
)

// DefaultGroup receives entities added without an explicit group
const DefaultGroup = "default"

// Scene maintains the entity list and named groups, and drives the
// frame sequence. The "ui" group renders in screen space and is
// excluded from collision consideration
type Scene struct {
	ctx        *engine.Context
	scheduler  *engine.Scheduler
	collisions *collision.System

	entities []*engine.Entity
	groups   map[string][]*engine.Entity

	// Camera is the world-space offset subtracted when rendering
	Camera vmath.Vec2

	// DrawColliders toggles collider outlines during Render
	DrawColliders bool

	statFrames *atomic.Int64
}

// New creates a scene with its own scheduler and collision system
func New(ctx *engine.Context) (*Scene, error) {
	cs, err := collision.NewSystem(ctx)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		ctx:        ctx,
		scheduler:  engine.NewScheduler(ctx),
		collisions: cs,
		groups:     make(map[string][]*engine.Entity),
		statFrames: ctx.Status.Ints.Get("scene.frames"),
	}
	cs.SetGroupSource(s)
	return s, nil
}

// Context implements engine.Scene
func (s *Scene) Context() *engine.Context {
	return s.ctx
}

// Group implements engine.Scene and collision.GroupSource
func (s *Scene) Group(name string) []*engine.Entity {
	return s.groups[name]
}

// Entities returns the live entity slice; callers must not mutate it
func (s *Scene) Entities() []*engine.Entity {
	return s.entities
}

// Collisions exposes the scene's collision system
func (s *Scene) Collisions() *collision.System {
	return s.collisions
}

// Scheduler exposes the scene's update scheduler
func (s *Scene) Scheduler() *engine.Scheduler {
	return s.scheduler
}

// Add registers an entity under a group, ignoring duplicates, and
// sets the scene back-reference
func (s *Scene) Add(e *engine.Entity, group string) {
	if e == nil {
		return
	}
	if group == "" {
		group = DefaultGroup
	}
	for _, existing := range s.entities {
		if existing == e {
			return
		}
	}

	s.entities = append(s.entities, e)
	s.groups[group] = append(s.groups[group], e)
	e.SetScene(s)

	s.ctx.Events.Push(event.Event{
		Type: event.EntityAdded,
		A:    uint64(e.ID()),
		Time: time.Now(),
	})
}

// Remove detaches an entity from the scene and every group
func (s *Scene) Remove(e *engine.Entity) {
	if e == nil {
		return
	}

	removed := false
	for i, existing := range s.entities {
		if existing == e {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		return
	}

	for name, members := range s.groups {
		for i, existing := range members {
			if existing == e {
				s.groups[name] = append(members[:i], members[i+1:]...)
				break
			}
		}
	}

	e.SetScene(nil)
	s.ctx.Events.Push(event.Event{
		Type: event.EntityRemoved,
		A:    uint64(e.ID()),
		Time: time.Now(),
	})
}

// Update runs one frame: the parallel entity update phase, then the
// single-threaded collision phase after the scheduler barrier
func (s *Scene) Update(dt float64) error {
	minBatch := s.ctx.Config.Engine.MinBatchSize
	if err := s.scheduler.UpdateEntitiesParallel(s.entities, dt, minBatch); err != nil {
		return err
	}

	s.collisions.Update(s.entities)
	s.statFrames.Add(1)
	return nil
}

// Render draws world entities with the camera offset, collider
// outlines when enabled, then UI-group entities in screen space
func (s *Scene) Render(screen tcell.Screen) {
	ui := make(map[engine.ID]struct{}, len(s.groups[collision.UIGroup]))
	for _, e := range s.groups[collision.UIGroup] {
		ui[e.ID()] = struct{}{}
	}

	for _, e := range s.entities {
		if _, isUI := ui[e.ID()]; isUI {
			continue
		}
		e.Render(screen, s.Camera)
		if s.DrawColliders {
			if c := collision.ColliderOf(e); c != nil {
				c.DebugDraw(screen, s.Camera)
			}
		}
	}

	for _, e := range s.groups[collision.UIGroup] {
		e.Render(screen, vmath.Vec2{})
	}
}

// HandleEvent fans an event out to every active entity
func (s *Scene) HandleEvent(ev event.Event) {
	for _, e := range s.entities {
		if e.Active {
			e.HandleEvent(ev)
		}
	}
}

// Stop shuts down the scheduler worker pool
func (s *Scene) Stop() {
	s.scheduler.Stop()
}
