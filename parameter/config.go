package parameter

import (
	"fmt"
	"runtime"
)

// Config aggregates all tunable kernel settings. Loaded from YAML or
// constructed from Default(), then passed explicitly to constructors
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Collision CollisionConfig `yaml:"collision"`
	Physics   PhysicsConfig   `yaml:"physics"`
}

// EngineConfig controls the parallel update scheduler and entity model
type EngineConfig struct {
	// Workers is the update pool size. Zero selects min(cores, MaxWorkers)
	Workers int `yaml:"workers"`

	// MinBatchSize is the smallest entity count dispatched in parallel
	MinBatchSize int `yaml:"min_batch_size"`

	// ThreadSafeEntities enables the per-entity update lock
	ThreadSafeEntities bool `yaml:"thread_safe_entities"`
}

// CollisionConfig controls the broad phase and event cadence
type CollisionConfig struct {
	// CellSize is the spatial grid cell edge in world units
	CellSize float64 `yaml:"cell_size"`

	// UseSpatialGrid selects grid broad phase over all-pairs
	UseSpatialGrid bool `yaml:"use_spatial_grid"`

	// UIRefreshInterval is the UI-exclusion cache rebuild period in frames
	UIRefreshInterval int `yaml:"ui_refresh_interval"`
}

// PhysicsConfig holds world-level physics defaults
type PhysicsConfig struct {
	// Gravity is the default downward acceleration scale for new bodies
	Gravity float64 `yaml:"gravity"`

	// TerminalVelocity caps body speed, direction preserved
	TerminalVelocity float64 `yaml:"terminal_velocity"`
}

// Default returns the baseline configuration
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Workers:      defaultWorkers(),
			MinBatchSize: DefaultMinBatchSize,
		},
		Collision: CollisionConfig{
			CellSize:          DefaultCellSize,
			UseSpatialGrid:    true,
			UIRefreshInterval: UIRefreshInterval,
		},
		Physics: PhysicsConfig{
			Gravity:          10.0,
			TerminalVelocity: DefaultTerminalVelocity,
		},
	}
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > MaxWorkers {
		n = MaxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Validate rejects configurations that cannot run
func (c *Config) Validate() error {
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must be >= 0, got %d", c.Engine.Workers)
	}
	if c.Engine.MinBatchSize < 1 {
		return fmt.Errorf("engine.min_batch_size must be >= 1, got %d", c.Engine.MinBatchSize)
	}
	if c.Collision.CellSize <= 0 {
		return fmt.Errorf("collision.cell_size must be > 0, got %g", c.Collision.CellSize)
	}
	if c.Collision.UIRefreshInterval < 1 {
		return fmt.Errorf("collision.ui_refresh_interval must be >= 1, got %d", c.Collision.UIRefreshInterval)
	}
	if c.Physics.TerminalVelocity <= 0 {
		return fmt.Errorf("physics.terminal_velocity must be > 0, got %g", c.Physics.TerminalVelocity)
	}
	return nil
}
