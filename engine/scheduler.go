package engine

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wrenfield/simplane/parameter"
)

// ErrSchedulerStopped is returned when submitting work after Stop
var ErrSchedulerStopped = errors.New("scheduler stopped")

// Scheduler runs per-entity updates across a bounded worker pool.
// UpdateEntitiesParallel blocks until every batch completes, forming a
// hard barrier: the single-threaded collision phase never overlaps the
// parallel update phase.
//
// Safety rests on the invariant that an entity update only touches
// that entity's own state; no cross-entity locking is needed
type Scheduler struct {
	ctx     *Context
	workers int

	tasks    chan func()
	workerWg sync.WaitGroup
	stopOnce sync.Once
	stopped  atomic.Bool

	// Cached metric pointers
	statBatches  *atomic.Int64
	statEntities *atomic.Int64
	statFrameNs  *atomic.Int64
}

// NewScheduler starts the worker pool sized from the engine config
// (zero selects min(host cores, 8))
func NewScheduler(ctx *Context) *Scheduler {
	workers := ctx.Config.Engine.Workers
	if workers < 1 {
		workers = defaultWorkerCount()
	}

	s := &Scheduler{
		ctx:          ctx,
		workers:      workers,
		tasks:        make(chan func(), workers*2),
		statBatches:  ctx.Status.Ints.Get("scheduler.batches"),
		statEntities: ctx.Status.Ints.Get("scheduler.entities"),
		statFrameNs:  ctx.Status.Ints.Get("scheduler.frame_ns"),
	}

	s.workerWg.Add(workers)
	for i := 0; i < workers; i++ {
		go s.worker()
	}
	return s
}

// Workers returns the pool size
func (s *Scheduler) Workers() int {
	return s.workers
}

// Stop shuts the pool down and waits for workers to drain.
// Subsequent submissions fail with ErrSchedulerStopped
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		close(s.tasks)
		s.workerWg.Wait()
	})
}

// worker drains the task channel until close. A panicking task is
// logged and the worker keeps serving; task-level recovery already
// happens per entity, this is the last line of defense
func (s *Scheduler) worker() {
	defer s.workerWg.Done()
	for task := range s.tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.ctx.Log.Error("worker fault", "panic", r)
				}
			}()
			task()
		}()
	}
}

// UpdateEntitiesParallel ticks all entities for this frame.
//
// Below minBatchSize the slice is processed sequentially: thread
// overhead is unjustified. Otherwise entities are partitioned into
// batches of max(minBatchSize, len/workers), one pool task per batch,
// and the call blocks until every batch completes. Order is preserved
// within a batch, unspecified across batches. There is no cancellation:
// a stalled entity update blocks its worker
func (s *Scheduler) UpdateEntitiesParallel(entities []*Entity, dt float64, minBatchSize int) error {
	if s.stopped.Load() {
		return ErrSchedulerStopped
	}
	if len(entities) == 0 {
		return nil
	}
	if minBatchSize < 1 {
		minBatchSize = 1
	}

	start := time.Now()
	defer func() {
		s.statFrameNs.Store(time.Since(start).Nanoseconds())
		s.statEntities.Store(int64(len(entities)))
	}()

	if len(entities) < minBatchSize {
		s.updateBatch(entities, dt)
		s.statBatches.Store(1)
		return nil
	}

	batchSize := len(entities) / s.workers
	if batchSize < minBatchSize {
		batchSize = minBatchSize
	}

	numBatches := (len(entities) + batchSize - 1) / batchSize
	if numBatches == 1 {
		s.updateBatch(entities, dt)
		s.statBatches.Store(1)
		return nil
	}

	var frameWg sync.WaitGroup
	for i := 0; i < len(entities); i += batchSize {
		end := i + batchSize
		if end > len(entities) {
			end = len(entities)
		}
		batch := entities[i:end]

		frameWg.Add(1)
		s.tasks <- func() {
			defer frameWg.Done()
			s.updateBatch(batch, dt)
		}
	}

	// Hard barrier before the single-threaded collision phase
	frameWg.Wait()
	s.statBatches.Store(int64(numBatches))
	return nil
}

// updateBatch ticks one batch sequentially. A panic in one entity's
// update is logged and the batch continues with the rest
func (s *Scheduler) updateBatch(entities []*Entity, dt float64) {
	for _, e := range entities {
		if e == nil || !e.Active {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.ctx.Log.Error("entity update fault", "entity", e.ID(), "panic", r)
				}
			}()
			e.SetDelta(dt)
			e.Update()
		}()
	}
}

func defaultWorkerCount() int {
	n := runtime.NumCPU()
	if n > parameter.MaxWorkers {
		n = parameter.MaxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}
