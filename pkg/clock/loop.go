package clock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const (
	timerPending int32 = iota
	timerFired
	timerStopped
)

// Loop is a wall clock that serializes every callback onto the goroutine
// running Run. Timers fire through time.AfterFunc but never execute on the
// timer goroutine; they are posted to the loop instead.
type Loop struct {
	start time.Time
	work  chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop creates a loop whose origin is the current wall-clock time
func NewLoop() *Loop {
	return &Loop{
		start: time.Now(),
		work:  make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Now returns the wall-clock time elapsed since NewLoop
func (l *Loop) Now() time.Duration {
	return time.Since(l.start)
}

// AfterFunc schedules f to run on the loop goroutine after d. Delivery
// needs Run: a timer that fires before Run starts waits in the work
// buffer, and once the buffer is full its goroutine blocks until Run or
// Close. A timer that fires after the loop has stopped is dropped.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.state.CompareAndSwap(timerPending, timerFired) {
				f()
			}
		})
	})
	return t
}

// Post submits f to run on the loop goroutine. It returns false once the
// loop has stopped.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.work <- f:
		return true
	case <-l.done:
		return false
	}
}

// Run executes posted work until ctx is cancelled or the loop is closed
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case f := <-l.work:
			f()
		}
	}
}

// Close stops the loop. Work still buffered is discarded and every blocked
// Post returns false. Close is idempotent.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}

type loopTimer struct {
	timer *time.Timer
	state atomic.Int32
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.state.CompareAndSwap(timerPending, timerStopped)
}
