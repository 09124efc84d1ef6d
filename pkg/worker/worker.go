// Package worker provides the validation worker drained by the coordinator
package worker

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jzx17/rawcheck/pkg/queue"
	"github.com/jzx17/rawcheck/pkg/types"
	"github.com/jzx17/rawcheck/pkg/validate"
)

// Validator checks a single file and reports the outcome. Implemented by
// *validate.Decoder; tests substitute stubs.
type Validator interface {
	Validate(ctx context.Context, file string) validate.Outcome
}

// WorkerState defines the state of a Worker
type WorkerState int32

const (
	// WorkerStateIdle represents a worker waiting for work
	WorkerStateIdle WorkerState = iota
	// WorkerStateWorking represents a worker validating a file
	WorkerStateWorking
	// WorkerStateStopped represents a worker that has exited its loop
	WorkerStateStopped
)

// String returns the string representation of WorkerState
func (ws WorkerState) String() string {
	switch ws {
	case WorkerStateIdle:
		return "idle"
	case WorkerStateWorking:
		return "working"
	case WorkerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Worker repeatedly pops one path from the shared queue, validates it, and
// records failures in a worker-private map. The map is written only by the
// owning worker while Run is active and becomes read-only shared state after
// Run returns, so the merge step needs no synchronization.
type Worker struct {
	id        int
	queue     *queue.Queue
	validator Validator
	logger    *zap.Logger
	clock     types.Clock

	state int32 // atomic state

	// statistics
	totalChecked int64
	totalFailed  int64
	lastActivity int64 // Unix nanosecond timestamp

	failed map[string]string
}

// New creates a Worker bound to the shared queue and a validator
func New(id int, q *queue.Queue, v Validator, logger *zap.Logger, clock types.Clock) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = types.NewRealClock()
	}

	return &Worker{
		id:        id,
		queue:     q,
		validator: v,
		logger:    logger.With(zap.Int("worker", id)),
		clock:     clock,
		state:     int32(WorkerStateIdle),
		failed:    make(map[string]string),
	}
}

// ID returns the Worker ID
func (w *Worker) ID() int {
	return w.id
}

// State returns the current Worker state
func (w *Worker) State() WorkerState {
	return WorkerState(atomic.LoadInt32(&w.state))
}

// Run drains the queue until it yields the no-more-work sentinel, then
// returns. Validation failures are recorded, never returned; a bad file
// never stops the worker.
func (w *Worker) Run(ctx context.Context) {
	defer atomic.StoreInt32(&w.state, int32(WorkerStateStopped))

	for {
		path, ok := w.queue.Pop()
		if !ok {
			return
		}
		w.process(ctx, path)
	}
}

// process validates a single popped path
func (w *Worker) process(ctx context.Context, path string) {
	atomic.StoreInt32(&w.state, int32(WorkerStateWorking))
	defer atomic.StoreInt32(&w.state, int32(WorkerStateIdle))

	start := w.clock.Now()
	atomic.StoreInt64(&w.lastActivity, start.UnixNano())

	w.logger.Debug("processing file", zap.String("path", path))

	outcome := w.validator.Validate(ctx, path)
	atomic.AddInt64(&w.totalChecked, 1)
	if outcome.Passed {
		return
	}

	// A decoder killed by cancellation is an abandoned item, not a failure.
	if ctx.Err() != nil {
		return
	}

	atomic.AddInt64(&w.totalFailed, 1)
	w.failed[path] = outcome.Diagnostic
}

// Failed returns the worker's failure map: path to cleaned diagnostic.
// Valid to read only after Run has returned.
func (w *Worker) Failed() map[string]string {
	return w.failed
}

// Stats gets Worker statistics
func (w *Worker) Stats() WorkerStats {
	return WorkerStats{
		ID:           w.id,
		State:        w.State(),
		TotalChecked: atomic.LoadInt64(&w.totalChecked),
		TotalFailed:  atomic.LoadInt64(&w.totalFailed),
		LastActivity: time.Unix(0, atomic.LoadInt64(&w.lastActivity)),
	}
}

// WorkerStats defines Worker statistics
type WorkerStats struct {
	ID           int
	State        WorkerState
	TotalChecked int64
	TotalFailed  int64
	LastActivity time.Time
}

// FailureRate gets the fraction of checked files that failed
func (ws WorkerStats) FailureRate() float64 {
	if ws.TotalChecked == 0 {
		return 0
	}
	return float64(ws.TotalFailed) / float64(ws.TotalChecked)
}
