// Package queue provides the blocking FIFO work queue feeding the worker pool
package queue

import "sync"

// Queue is an ordered, thread-safe, blocking mailbox of pending file paths.
// A single producer pushes paths and signals completion once; any number of
// consumers pop concurrently. A single mutex guards both the sequence and
// the completion flag, and the condition variable shares that mutex, so the
// check-empty-then-wait sequence in Pop is atomic with respect to Push and
// MarkComplete.
type Queue struct {
	mu        sync.Mutex
	cond      *sync.Cond
	items     []string
	completed bool
}

// New creates an empty queue
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a path to the tail of the queue and wakes one blocked
// consumer. Safe to call concurrently with Pop and other Push calls.
func (q *Queue) Push(path string) {
	q.mu.Lock()
	q.items = append(q.items, path)
	q.mu.Unlock()
	q.cond.Signal()
}

// Pop removes and returns the head of the queue. While the queue is empty
// and not yet completed the caller blocks. Once the queue is empty and
// completed, Pop returns ("", false) immediately and repeatably, which is
// the terminate signal for consumers.
func (q *Queue) Pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.completed {
		q.cond.Wait()
	}

	if len(q.items) == 0 {
		return "", false
	}

	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

// MarkComplete records that no further pushes will arrive and wakes every
// blocked consumer so it can observe the empty+completed state. Idempotent.
func (q *Queue) MarkComplete() {
	q.mu.Lock()
	q.completed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Clear drops all pending items without touching the completion flag.
// Used during cancellation so blocked consumers fall through quickly once
// MarkComplete is also called.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}

// Len returns the number of pending items
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Completed reports whether the producer has signaled completion
func (q *Queue) Completed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.completed
}
