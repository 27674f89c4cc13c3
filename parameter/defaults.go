package parameter

// Engine scheduling
const (
	// MaxWorkers caps the update worker pool regardless of host core count
	MaxWorkers = 8

	// DefaultMinBatchSize is the entity count below which parallel
	// dispatch is not worth the thread overhead
	DefaultMinBatchSize = 10
)

// Collision
const (
	// DefaultCellSize is the spatial grid cell edge in world units
	DefaultCellSize = 100.0

	// UIRefreshInterval is how many collision updates pass between
	// rebuilds of the UI-exclusion cache. Entities that change UI
	// group membership mid-window stay misclassified until the next
	// rebuild
	UIRefreshInterval = 60

	// MaxCollisionLayer is the highest valid collision layer bit
	MaxCollisionLayer = 31
)

// Physics
const (
	DefaultTerminalVelocity = 1000.0
	DefaultRestitution      = 0.5
	DefaultFriction         = 0.1
)

// Events
const (
	// EventQueueSize must be a power of two for mask-based indexing
	EventQueueSize  = 1024
	EventBufferMask = EventQueueSize - 1
)
