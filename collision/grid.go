package collision

import (
	"errors"
	"math"

	"github.com/wrenfield/simplane/engine"
	"github.com/wrenfield/simplane/vmath"
)

// ErrInvalidCellSize rejects non-positive grid cell sizes
var ErrInvalidCellSize = errors.New("cell size must be greater than zero")

// CellKey addresses one grid cell: (floor(x/size), floor(y/size))
type CellKey struct {
	X, Y int
}

// SpatialGrid is a uniform-cell index of collider positions used for
// broad-phase neighbor queries. It is rebuilt from scratch every frame;
// no incremental invariant is maintained across frames
type SpatialGrid struct {
	cellSize float64
	cells    map[CellKey][]*engine.Entity
}

// NewSpatialGrid creates a grid with the given cell edge length
func NewSpatialGrid(cellSize float64) (*SpatialGrid, error) {
	if cellSize <= 0 {
		return nil, ErrInvalidCellSize
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[CellKey][]*engine.Entity),
	}, nil
}

// CellSize returns the cell edge length
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

// Clear removes all entities from all cells, keeping allocations
func (g *SpatialGrid) Clear() {
	for k := range g.cells {
		delete(g.cells, k)
	}
}

// CellCount returns the number of occupied cells
func (g *SpatialGrid) CellCount() int {
	return len(g.cells)
}

// keyAt maps a world point to its cell
func (g *SpatialGrid) keyAt(p vmath.Vec2) CellKey {
	return CellKey{
		X: int(math.Floor(p.X / g.cellSize)),
		Y: int(math.Floor(p.Y / g.cellSize)),
	}
}

// Insert registers an entity in every cell its bounds touch
func (g *SpatialGrid) Insert(e *engine.Entity, bounds vmath.Rect) {
	lo := g.keyAt(bounds.Min)
	hi := g.keyAt(bounds.Max)
	for cy := lo.Y; cy <= hi.Y; cy++ {
		for cx := lo.X; cx <= hi.X; cx++ {
			key := CellKey{X: cx, Y: cy}
			g.cells[key] = append(g.cells[key], e)
		}
	}
}

// Neighbors yields every entity registered in the cells spanned by
// bounds plus the adjacent ring around them. An entity spanning
// several cells is yielded once per cell; callers deduplicate by
// pair identity
func (g *SpatialGrid) Neighbors(bounds vmath.Rect, fn func(*engine.Entity)) {
	lo := g.keyAt(bounds.Min)
	hi := g.keyAt(bounds.Max)
	for cy := lo.Y - 1; cy <= hi.Y+1; cy++ {
		for cx := lo.X - 1; cx <= hi.X+1; cx++ {
			for _, e := range g.cells[CellKey{X: cx, Y: cy}] {
				fn(e)
			}
		}
	}
}
