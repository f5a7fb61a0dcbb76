/*
Package dispatch marshals work onto the goroutine that lays out the UI.

View-models, cells and layout caches are owned by the frame goroutine.
Background work posts closures to a Queue, and the frame goroutine runs
them with Drain at the start of each frame.

	case <-queue.Updated():
		w.Invalidate()
	case e := <-w.Events():
		...
		case system.FrameEvent:
			queue.Drain()
*/
package dispatch

import "sync"

// Queue is a multi-producer, single-consumer queue of UI work. The zero
// value is ready to use.
type Queue struct {
	// Invalidator, if set, is invoked after each Post to request a new frame.
	Invalidator func()

	mu      sync.Mutex
	pending []func()
	init    sync.Once
	updated chan struct{}
}

func (q *Queue) initialize() {
	q.updated = make(chan struct{}, 1)
}

// Post schedules fn to run on the frame goroutine. Safe for concurrent use.
func (q *Queue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.init.Do(q.initialize)
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
	select {
	case q.updated <- struct{}{}:
	default:
	}
	if q.Invalidator != nil {
		q.Invalidator()
	}
}

// Updated returns a channel that reports that work has been posted.
func (q *Queue) Updated() <-chan struct{} {
	q.init.Do(q.initialize)
	return q.updated
}

// Drain runs, in posting order, the work posted before the call, and
// returns how many closures ran. Work posted while draining runs on the next
// call. Drain must only be called from the frame goroutine.
func (q *Queue) Drain() int {
	q.mu.Lock()
	work := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range work {
		fn()
	}
	return len(work)
}

// Len returns the amount of pending work.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
