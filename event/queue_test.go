package event

import (
	"sync"
	"testing"

	"github.com/wrenfield/simplane/parameter"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()

	for i := uint64(1); i <= 5; i++ {
		q.Push(Event{Type: CollisionEnter, A: i})
	}

	got := q.Consume()
	if len(got) != 5 {
		t.Fatalf("expected 5 events, got %d", len(got))
	}
	for i, ev := range got {
		if ev.A != uint64(i+1) {
			t.Errorf("event %d out of order: A = %d", i, ev.A)
		}
	}

	if more := q.Consume(); more != nil {
		t.Errorf("drained queue returned %d events", len(more))
	}
}

func TestQueueLen(t *testing.T) {
	q := NewQueue()
	if q.Len() != 0 {
		t.Errorf("empty queue Len = %d", q.Len())
	}

	q.Push(Event{Type: EntityAdded, A: 1})
	q.Push(Event{Type: EntityAdded, A: 2})
	if q.Len() != 2 {
		t.Errorf("Len = %d, want 2", q.Len())
	}

	q.Consume()
	if q.Len() != 0 {
		t.Errorf("Len after consume = %d, want 0", q.Len())
	}
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := NewQueue()

	total := parameter.EventQueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(Event{Type: CollisionEnter, A: uint64(i)})
	}

	got := q.Consume()
	if len(got) > parameter.EventQueueSize {
		t.Fatalf("consumed %d events, capacity is %d", len(got), parameter.EventQueueSize)
	}

	// The oldest events must be the ones dropped
	if got[0].A != uint64(total-len(got)) {
		t.Errorf("first surviving event A = %d, want %d", got[0].A, total-len(got))
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()

	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(id uint64) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(Event{Type: CollisionEnter, A: id})
			}
		}(uint64(p))
	}
	wg.Wait()

	got := q.Consume()
	if len(got) != producers*perProducer {
		t.Errorf("consumed %d events, want %d", len(got), producers*perProducer)
	}
}
