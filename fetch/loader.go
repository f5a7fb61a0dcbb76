/*
Package fetch loads chat media asynchronously.

Loads run on a worker pool. Progress and completion are posted to a
dispatch.Queue so that they are delivered on the frame goroutine, where it is
safe to write them into view-model observables. A Request can be cancelled
any number of times; once cancelled it never reports again.
*/
package fetch

import (
	"context"
	"errors"
	"image"
	"sync"

	"git.sr.ht/~gioverse/chatitems/dispatch"
	"golang.org/x/image/draw"
)

// ErrCancelled is the error of a load whose request was cancelled. It is
// never delivered to a completion callback.
var ErrCancelled = errors.New("fetch: request cancelled")

// DefaultWorkers is the size of the default worker pool.
const DefaultWorkers = 4

// Source performs the blocking load of an image. Implementations report
// progress in [0,1] through the provided function, from any goroutine.
type Source interface {
	Load(ctx context.Context, id string, progress func(float64)) (image.Image, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, id string, progress func(float64)) (image.Image, error)

func (f SourceFunc) Load(ctx context.Context, id string, progress func(float64)) (image.Image, error) {
	return f(ctx, id, progress)
}

// Result of a load.
type Result struct {
	ID    string
	Image image.Image
	Err   error
}

// Loader schedules loads from a Source.
type Loader struct {
	// Source performs the loads.
	Source Source
	// Queue receives progress and completion callbacks. Required.
	Queue *dispatch.Queue
	// Scheduler provides scheduling behaviour. Defaults to a fixed worker
	// pool of DefaultWorkers.
	Scheduler Scheduler
	// MaxSide, if positive, scales loaded images down so neither side
	// exceeds it. Scaling happens on the worker.
	MaxSide int

	init sync.Once
	mu   sync.Mutex
	// inflight holds requests that have not finished loading.
	inflight map[*Request]struct{}
	closed   bool
}

// closer is implemented by schedulers that hold workers.
type closer interface {
	Close()
}

func (l *Loader) initialize() {
	if l.Scheduler == nil {
		l.Scheduler = &FixedWorkerPool{Workers: DefaultWorkers}
	}
	if l.Queue == nil {
		l.Queue = &dispatch.Queue{}
	}
	l.inflight = make(map[*Request]struct{})
}

// Request loads id. onProgress and onComplete, either of which may be nil,
// run on the frame goroutine via the Queue.
func (l *Loader) Request(id string, onProgress func(float64), onComplete func(Result)) *Request {
	l.init.Do(l.initialize)
	ctx, cancel := context.WithCancel(context.Background())
	r := &Request{
		ID:         id,
		cancel:     cancel,
		onProgress: onProgress,
		onComplete: onComplete,
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		r.Cancel()
		return r
	}
	l.inflight[r] = struct{}{}
	l.mu.Unlock()
	go l.Scheduler.Schedule(func() {
		l.run(ctx, r)
	})
	return r
}

// run the load on a worker.
func (l *Loader) run(ctx context.Context, r *Request) {
	defer func() {
		l.mu.Lock()
		delete(l.inflight, r)
		l.mu.Unlock()
	}()
	if ctx.Err() != nil {
		return
	}
	r.setState(Loading)
	img, err := l.Source.Load(ctx, r.ID, func(p float64) {
		l.Queue.Post(func() { r.progress(p) })
	})
	if ctx.Err() != nil {
		return
	}
	if err == nil && img != nil && l.MaxSide > 0 {
		img = Scale(img, l.MaxSide)
	}
	if err == nil && img == nil {
		err = errors.New("fetch: source returned no image")
	}
	l.Queue.Post(func() {
		r.complete(Result{ID: r.ID, Image: img, Err: err})
	})
}

// Close cancels the requests in flight and stops the workers of the
// scheduler. Requests made after Close are cancelled immediately.
func (l *Loader) Close() {
	l.init.Do(l.initialize)
	l.mu.Lock()
	l.closed = true
	inflight := make([]*Request, 0, len(l.inflight))
	for r := range l.inflight {
		inflight = append(inflight, r)
	}
	l.mu.Unlock()
	for _, r := range inflight {
		r.Cancel()
	}
	if c, ok := l.Scheduler.(closer); ok {
		c.Close()
	}
}

// Stats reports runtime data about the loader.
type Stats struct {
	InFlight int
}

// Stats reports the number of requests that have not finished loading.
func (l *Loader) Stats() Stats {
	l.init.Do(l.initialize)
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{InFlight: len(l.inflight)}
}

// Scale img down so that neither side exceeds maxSide, preserving its
// aspect ratio. Images that already fit are returned unchanged.
func Scale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	longest := b.Dx()
	if b.Dy() > longest {
		longest = b.Dy()
	}
	if longest <= maxSide || maxSide <= 0 {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*maxSide/longest, b.Dy()*maxSide/longest))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
