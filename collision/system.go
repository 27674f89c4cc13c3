package collision

import (
	"sync/atomic"
	"time"

	"github.com/wrenfield/simplane/engine"
	"github.com/wrenfield/simplane/event"
	"github.com/wrenfield/simplane/physics"
)

// GroupSource resolves named entity groups. The "ui" group is excluded
// from collision consideration
type GroupSource interface {
	Group(name string) []*engine.Entity
}

// UIGroup is the group name excluded from collision detection
const UIGroup = "ui"

// pairKey is an unordered entity pair, stored with A < B
type pairKey struct {
	A, B engine.ID
}

func makePair(a, b engine.ID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{A: a, B: b}
}

// System orchestrates the per-frame collision pass:
// cache rebuild, broad phase, narrow phase, resolution, event diff.
// It owns the canonical set of currently overlapping pairs and runs
// strictly single-threaded, after the parallel update barrier
type System struct {
	ctx    *engine.Context
	grid   *SpatialGrid
	groups GroupSource

	useGrid bool

	// Canonical overlapping-pair set, diffed frame to frame
	pairs map[pairKey]struct{}

	// Per-frame lookup caches, rebuilt O(n) each update
	entities  map[engine.ID]*engine.Entity
	colliders map[engine.ID]Collider
	bodies    map[engine.ID]*physics.Body
	active    []*engine.Entity

	// UI-exclusion cache, refreshed at most once per refresh interval.
	// An entity changing UI membership mid-window stays misclassified
	// until the next rebuild
	uiExcluded      map[engine.ID]struct{}
	uiRefreshEvery  int
	uiRefreshTicker int

	statCandidates *atomic.Int64
	statConfirmed  *atomic.Int64
	statResolved   *atomic.Int64
	statCells      *atomic.Int64
}

// NewSystem creates a collision system from the context configuration
func NewSystem(ctx *engine.Context) (*System, error) {
	cfg := ctx.Config.Collision

	grid, err := NewSpatialGrid(cfg.CellSize)
	if err != nil {
		return nil, err
	}

	refresh := cfg.UIRefreshInterval
	if refresh < 1 {
		refresh = 1
	}

	return &System{
		ctx:            ctx,
		grid:           grid,
		useGrid:        cfg.UseSpatialGrid,
		pairs:          make(map[pairKey]struct{}),
		entities:       make(map[engine.ID]*engine.Entity),
		colliders:      make(map[engine.ID]Collider),
		bodies:         make(map[engine.ID]*physics.Body),
		uiExcluded:     make(map[engine.ID]struct{}),
		uiRefreshEvery: refresh,
		statCandidates: ctx.Status.Ints.Get("collision.candidates"),
		statConfirmed:  ctx.Status.Ints.Get("collision.confirmed"),
		statResolved:   ctx.Status.Ints.Get("collision.resolved"),
		statCells:      ctx.Status.Ints.Get("collision.cells"),
	}, nil
}

// SetGroupSource wires the scene group lookup used for UI exclusion
func (s *System) SetGroupSource(src GroupSource) {
	s.groups = src
}

// SetUseSpatialGrid toggles the grid broad phase; disabled falls back
// to all-pairs enumeration
func (s *System) SetUseSpatialGrid(enabled bool) {
	s.useGrid = enabled
}

// Pairs returns a copy of the currently overlapping pair set as
// (low ID, high ID) tuples
func (s *System) Pairs() [][2]engine.ID {
	out := make([][2]engine.ID, 0, len(s.pairs))
	for p := range s.pairs {
		out = append(out, [2]engine.ID{p.A, p.B})
	}
	return out
}

// Clear drops all tracked pairs without firing exit events
func (s *System) Clear() {
	s.pairs = make(map[pairKey]struct{})
}

// Update runs one full collision pass over the entity list. Entities
// without a collider are silently excluded; entities without a physics
// body participate in detection and eventing but skip resolution
func (s *System) Update(entities []*engine.Entity) {
	s.rebuildCaches(entities)

	candidates := s.broadPhase()
	s.statCandidates.Store(int64(len(candidates)))

	prev := s.pairs
	s.pairs = make(map[pairKey]struct{}, len(prev))
	s.statResolved.Store(0)

	// Narrow phase + resolution
	for _, cand := range candidates {
		a, b := cand[0], cand[1]
		ca, cb := s.colliders[a.ID()], s.colliders[b.ID()]

		if !ca.CheckCollision(cb) {
			continue
		}

		s.pairs[makePair(a.ID(), b.ID())] = struct{}{}
		s.resolve(a, b, ca, cb)
	}
	s.statConfirmed.Store(int64(len(s.pairs)))

	s.eventDiff(prev)
}

// rebuildCaches refreshes the entity/collider/body lookup maps from
// the live entity list, and throttle-rebuilds the UI-exclusion cache
func (s *System) rebuildCaches(entities []*engine.Entity) {
	if s.uiRefreshTicker%s.uiRefreshEvery == 0 {
		clear(s.uiExcluded)
		if s.groups != nil {
			for _, e := range s.groups.Group(UIGroup) {
				s.uiExcluded[e.ID()] = struct{}{}
			}
		}
	}
	s.uiRefreshTicker++

	clear(s.entities)
	clear(s.colliders)
	clear(s.bodies)
	s.active = s.active[:0]

	for _, e := range entities {
		if e == nil || !e.Active {
			continue
		}
		s.entities[e.ID()] = e

		if _, excluded := s.uiExcluded[e.ID()]; excluded {
			continue
		}

		c := ColliderOf(e)
		if c == nil {
			continue
		}
		s.colliders[e.ID()] = c
		s.active = append(s.active, e)

		if body, ok := engine.Get[*physics.Body](e); ok {
			s.bodies[e.ID()] = body
		}
	}
}

// broadPhase generates candidate pairs: grid neighbor queries when the
// spatial grid is enabled, all-pairs enumeration otherwise. The result
// is always a superset of the pairs narrow phase will confirm
func (s *System) broadPhase() [][2]*engine.Entity {
	if !s.useGrid {
		return s.allPairs()
	}

	s.grid.Clear()
	for _, e := range s.active {
		s.grid.Insert(e, s.colliders[e.ID()].BoundingBox())
	}
	s.statCells.Store(int64(s.grid.CellCount()))

	seen := make(map[pairKey]struct{})
	candidates := make([][2]*engine.Entity, 0, len(s.active))

	for _, e := range s.active {
		bounds := s.colliders[e.ID()].BoundingBox()
		s.grid.Neighbors(bounds, func(other *engine.Entity) {
			if other == e {
				return
			}
			key := makePair(e.ID(), other.ID())
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
			candidates = append(candidates, [2]*engine.Entity{e, other})
		})
	}
	return candidates
}

// allPairs is the O(n²) fallback enumeration
func (s *System) allPairs() [][2]*engine.Entity {
	n := len(s.active)
	candidates := make([][2]*engine.Entity, 0, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			candidates = append(candidates, [2]*engine.Entity{s.active[i], s.active[j]})
		}
	}
	return candidates
}

// resolve fires the per-overlap hooks and applies positional
// correction on each non-kinematic side. Triggers never resolve
func (s *System) resolve(a, b *engine.Entity, ca, cb Collider) {
	ca.Collided(b)
	cb.Collided(a)

	if ca.IsTrigger() || cb.IsTrigger() {
		return
	}

	if body, ok := s.bodies[a.ID()]; ok && !body.IsKinematic {
		body.ResolveCollision(cb)
		s.statResolved.Add(1)
	}
	if body, ok := s.bodies[b.ID()]; ok && !body.IsKinematic {
		body.ResolveCollision(ca)
		s.statResolved.Add(1)
	}
}

// eventDiff compares the current pair set against the previous frame's
// and fires enter/exit exactly once per transition, on both sides,
// mirroring each transition onto the event queue
func (s *System) eventDiff(prev map[pairKey]struct{}) {
	now := time.Now()

	for p := range s.pairs {
		if _, existed := prev[p]; existed {
			continue
		}
		ea, eb := s.entities[p.A], s.entities[p.B]
		if ea == nil || eb == nil {
			continue
		}
		s.colliders[p.A].OnCollisionEnter(eb)
		s.colliders[p.B].OnCollisionEnter(ea)
		s.ctx.Events.Push(event.Event{
			Type: event.CollisionEnter,
			A:    uint64(p.A),
			B:    uint64(p.B),
			Time: now,
		})
	}

	for p := range prev {
		if _, still := s.pairs[p]; still {
			continue
		}
		ea, eb := s.entities[p.A], s.entities[p.B]
		if ea == nil || eb == nil {
			continue
		}
		ca, cb := ColliderOf(ea), ColliderOf(eb)
		if ca == nil || cb == nil {
			continue
		}
		ca.OnCollisionExit(eb)
		cb.OnCollisionExit(ea)
		s.ctx.Events.Push(event.Event{
			Type: event.CollisionExit,
			A:    uint64(p.A),
			B:    uint64(p.B),
			Time: now,
		})
	}
}
