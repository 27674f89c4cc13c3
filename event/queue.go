package event

import (
	"sync/atomic"

	"github.com/wrenfield/simplane/parameter"
)

// Queue is a lock-free MPSC ring buffer for kernel events
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK
//   - Consume: Single consumer (frame loop)
//   - Published flags prevent reading partial writes
//
// Overflow: Oldest events overwritten when full
type Queue struct {
	events    [parameter.EventQueueSize]Event
	published [parameter.EventQueueSize]atomic.Bool // True = slot fully written
	head      atomic.Uint64                         // Read index
	tail      atomic.Uint64                         // Write index
}

func NewQueue() *Queue {
	q := &Queue{}
	q.head.Store(0)
	q.tail.Store(0)
	return q
}

// Push adds an event using lock-free CAS with published flags.
// Safe for concurrent producers. O(1) amortized
func (q *Queue) Push(ev Event) {
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & parameter.EventBufferMask

			q.events[idx] = ev
			q.published[idx].Store(true) // MUST be after write

			// Advance head if overwriting unread events
			currentHead := q.head.Load()
			if nextTail-currentHead > parameter.EventQueueSize {
				q.head.CompareAndSwap(currentHead, nextTail-parameter.EventQueueSize)
			}
			return
		}
	}
}

// Consume returns all pending events in FIFO order and advances head.
// Single-consumer design. Checks published flags for safety
func (q *Queue) Consume() []Event {
	for {
		currentHead := q.head.Load()
		currentTail := q.tail.Load()

		if currentTail == currentHead {
			return nil
		}

		maxAvailable := currentTail - currentHead
		if maxAvailable > parameter.EventQueueSize {
			maxAvailable = parameter.EventQueueSize
			currentHead = currentTail - parameter.EventQueueSize
		}

		result := make([]Event, 0, maxAvailable)
		for i := uint64(0); i < maxAvailable; i++ {
			idx := (currentHead + i) & parameter.EventBufferMask

			if !q.published[idx].Load() {
				break // Writer incomplete
			}

			result = append(result, q.events[idx])
			q.published[idx].Store(false)
		}

		newHead := currentHead + uint64(len(result))
		if q.head.CompareAndSwap(currentHead, newHead) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}

// Len returns the approximate pending event count. Lock-free
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	diff := int(tail - head)
	if diff > parameter.EventQueueSize {
		return parameter.EventQueueSize
	}
	return diff
}
