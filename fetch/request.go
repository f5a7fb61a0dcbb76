package fetch

import (
	"context"
	"sync"
)

// State that a Request can be in.
type State byte

const (
	Queued State = iota
	Loading
	Loaded
	Cancelled
)

func (s State) String() string {
	switch s {
	case Queued:
		return "queued"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown state"
	}
}

// Request is a handle on an in-flight load.
type Request struct {
	ID string

	cancel     context.CancelFunc
	onProgress func(float64)
	onComplete func(Result)

	mu    sync.Mutex
	state State
}

// State returns the current state of the request.
func (r *Request) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Cancel the request. Cancelling is idempotent, and a cancelled request
// never invokes its callbacks afterwards. Cancelling a loaded request has
// no effect.
func (r *Request) Cancel() {
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.state == Loaded || r.state == Cancelled {
		r.mu.Unlock()
		return
	}
	r.state = Cancelled
	r.mu.Unlock()
	r.cancel()
}

func (r *Request) setState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Cancelled {
		r.state = s
	}
}

// progress delivers a progress report on the frame goroutine.
func (r *Request) progress(p float64) {
	if r.State() == Cancelled || r.State() == Loaded || r.onProgress == nil {
		return
	}
	r.onProgress(p)
}

// complete delivers the result on the frame goroutine.
func (r *Request) complete(res Result) {
	r.mu.Lock()
	if r.state == Cancelled || r.state == Loaded {
		r.mu.Unlock()
		return
	}
	r.state = Loaded
	r.mu.Unlock()
	r.cancel()
	if r.onComplete != nil {
		r.onComplete(res)
	}
}
