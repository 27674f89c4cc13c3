package event

import "time"

// Type identifies a kernel event
type Type uint16

const (
	None Type = iota

	// Collision transitions, fired once per pair per transition
	CollisionEnter
	CollisionExit

	// Entity lifecycle in a scene
	EntityAdded
	EntityRemoved
)

// String returns the event type name for logs
func (t Type) String() string {
	switch t {
	case CollisionEnter:
		return "collision_enter"
	case CollisionExit:
		return "collision_exit"
	case EntityAdded:
		return "entity_added"
	case EntityRemoved:
		return "entity_removed"
	default:
		return "none"
	}
}

// Event is a fixed-layout kernel event. A and B carry entity IDs;
// B is zero for single-entity events
type Event struct {
	Type Type
	A    uint64
	B    uint64
	Time time.Time
}
