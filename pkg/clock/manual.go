package clock

import (
	"container/heap"
	"time"
)

// Manual is a logical clock. Time only moves through Advance, Step and
// RunUntilIdle, and every due callback runs synchronously on the caller's
// goroutine. Manual is not safe for concurrent use.
type Manual struct {
	now   time.Duration
	seq   uint64
	queue eventQueue
}

// NewManual creates a logical clock positioned at its origin
func NewManual() *Manual {
	return &Manual{queue: make(eventQueue, 0)}
}

// Now returns the logical time elapsed since the origin
func (m *Manual) Now() time.Duration {
	return m.now
}

// AfterFunc queues f to run once the clock reaches Now()+d
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	ev := &event{due: m.now + d, seq: m.seq, f: f}
	m.seq++
	heap.Push(&m.queue, ev)
	return &manualTimer{clock: m, ev: ev}
}

// Advance moves the clock forward by d, running every callback that falls
// due on the way, including callbacks queued by those callbacks.
// It returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	target := m.now + d
	fired := 0
	for m.queue.Len() > 0 && m.queue[0].due <= target {
		m.fireNext()
		fired++
	}
	m.now = target
	return fired
}

// Step jumps to the next queued callback and runs it.
// It returns false when nothing is queued.
func (m *Manual) Step() bool {
	if m.queue.Len() == 0 {
		return false
	}
	m.fireNext()
	return true
}

// RunUntilIdle steps until the queue is empty or limit callbacks have run.
// A non-positive limit means no limit.
func (m *Manual) RunUntilIdle(limit int) int {
	fired := 0
	for limit <= 0 || fired < limit {
		if !m.Step() {
			break
		}
		fired++
	}
	return fired
}

// Pending returns the number of queued callbacks
func (m *Manual) Pending() int {
	return m.queue.Len()
}

func (m *Manual) fireNext() {
	ev := heap.Pop(&m.queue).(*event)
	if ev.due > m.now {
		m.now = ev.due
	}
	ev.f()
}

type manualTimer struct {
	clock *Manual
	ev    *event
}

func (t *manualTimer) Stop() bool {
	if t.ev.index < 0 {
		return false
	}
	heap.Remove(&t.clock.queue, t.ev.index)
	return true
}
