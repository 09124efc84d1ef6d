package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jzx17/rawcheck/internal/testutils"
	"github.com/jzx17/rawcheck/pkg/queue"
	"github.com/jzx17/rawcheck/pkg/validate"
)

// stubValidator fails every path listed in reject with its diagnostic
type stubValidator struct {
	mu     sync.Mutex
	reject map[string]string
	seen   []string
	delay  time.Duration
}

func (s *stubValidator) Validate(ctx context.Context, file string) validate.Outcome {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
		}
	}

	s.mu.Lock()
	s.seen = append(s.seen, file)
	diag, bad := s.reject[file]
	s.mu.Unlock()

	if bad {
		return validate.Outcome{Diagnostic: diag}
	}
	return validate.Outcome{Passed: true}
}

func TestNew(t *testing.T) {
	q := queue.New()
	w := New(3, q, &stubValidator{}, nil, nil)

	assert.Equal(t, 3, w.ID())
	assert.Equal(t, WorkerStateIdle, w.State())
	assert.Empty(t, w.Failed())
}

func TestWorkerState_String(t *testing.T) {
	assert.Equal(t, "idle", WorkerStateIdle.String())
	assert.Equal(t, "working", WorkerStateWorking.String())
	assert.Equal(t, "stopped", WorkerStateStopped.String())
	assert.Equal(t, "unknown", WorkerState(999).String())
}

func TestWorker_RunDrainsQueue(t *testing.T) {
	q := queue.New()
	v := &stubValidator{}
	w := New(0, q, v, nil, nil)

	for i := 0; i < 10; i++ {
		q.Push(fmt.Sprintf("file-%d.cr2", i))
	}
	q.MarkComplete()

	w.Run(context.Background())

	assert.Equal(t, WorkerStateStopped, w.State())
	assert.Len(t, v.seen, 10)
	assert.Empty(t, w.Failed())

	stats := w.Stats()
	assert.Equal(t, int64(10), stats.TotalChecked)
	assert.Equal(t, int64(0), stats.TotalFailed)
}

func TestWorker_RecordsFailures(t *testing.T) {
	q := queue.New()
	v := &stubValidator{reject: map[string]string{
		"bad.dng": "corrupt header",
		"bad.raf": "truncated file",
	}}
	w := New(0, q, v, nil, nil)

	q.Push("ok.cr2")
	q.Push("bad.dng")
	q.Push("bad.raf")
	q.MarkComplete()

	w.Run(context.Background())

	assert.Equal(t, map[string]string{
		"bad.dng": "corrupt header",
		"bad.raf": "truncated file",
	}, w.Failed())

	stats := w.Stats()
	assert.Equal(t, int64(3), stats.TotalChecked)
	assert.Equal(t, int64(2), stats.TotalFailed)
	assert.InDelta(t, 2.0/3.0, stats.FailureRate(), 1e-9)
}

func TestWorker_SentinelTerminates(t *testing.T) {
	q := queue.New()
	w := New(0, q, &stubValidator{}, nil, nil)
	q.MarkComplete()

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not terminate on empty, completed queue")
	}
	assert.Equal(t, WorkerStateStopped, w.State())
}

func TestWorker_BlocksUntilWorkArrives(t *testing.T) {
	q := queue.New()
	v := &stubValidator{}
	w := New(0, q, v, nil, nil)

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("worker exited with the queue still open")
	case <-time.After(50 * time.Millisecond):
	}

	q.Push("late.cr3")
	q.MarkComplete()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not finish after completion signal")
	}
	assert.Equal(t, []string{"late.cr3"}, v.seen)
}

func TestWorker_StatsUseInjectedClock(t *testing.T) {
	mock := testutils.NewMockClock(t)
	clock := testutils.NewClockWrapper(mock)

	q := queue.New()
	w := New(0, q, &stubValidator{}, nil, clock)

	q.Push("a.cr2")
	q.MarkComplete()
	w.Run(context.Background())

	assert.True(t, mock.Now().Equal(w.Stats().LastActivity))
}

func TestWorker_FailureRateZeroWhenIdle(t *testing.T) {
	stats := WorkerStats{}
	assert.Zero(t, stats.FailureRate())
}
