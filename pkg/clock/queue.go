package clock

import "time"

// event is a callback waiting in the manual clock queue
type event struct {
	due time.Duration
	seq uint64
	f   func()

	// index is maintained by the heap.Interface methods, -1 once removed
	index int
}

// eventQueue implements heap.Interface ordered by due time, then by
// insertion order so that callbacks due at the same instant run FIFO.
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *eventQueue) Push(x any) {
	ev := x.(*event)
	ev.index = len(*q)
	*q = append(*q, ev)
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil // avoid memory leak
	ev.index = -1
	*q = old[:n-1]
	return ev
}
