package fetch

import (
	"runtime"
	"sync"
)

// Scheduler schedules work according to some strategy.
// Implementations can implement the best way to distribute work for a given
// application.
type Scheduler interface {
	// Schedule a piece of work. This method is allowed to block.
	Schedule(func())
}

// FixedWorkerPool runs work on a fixed number of long lived goroutines.
//
// This pool will minimize goroutine latency at the cost of maintaining the
// configured number of goroutines until it is closed.
type FixedWorkerPool struct {
	// Workers specifies the number of concurrent workers in this pool.
	// Defaults to NumCPU.
	Workers int

	start sync.Once
	stop  sync.Once
	// work is unbuffered: Schedule blocks until a worker is idle.
	work chan func()
	done chan struct{}
}

func (p *FixedWorkerPool) spawn() {
	p.work = make(chan func())
	p.done = make(chan struct{})
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU()
	}
	for ii := 0; ii < p.Workers; ii++ {
		go p.worker()
	}
}

func (p *FixedWorkerPool) worker() {
	for {
		select {
		case <-p.done:
			return
		case w := <-p.work:
			if w != nil {
				w()
			}
		}
	}
}

// Schedule work on an idle worker, blocking while all workers are busy.
// Work scheduled after Close is dropped.
func (p *FixedWorkerPool) Schedule(work func()) {
	p.start.Do(p.spawn)
	select {
	case <-p.done:
	case p.work <- work:
	}
}

// Close stops the workers once they finish their current work. Closing
// twice is a no-op.
func (p *FixedWorkerPool) Close() {
	p.start.Do(p.spawn)
	p.stop.Do(func() { close(p.done) })
}

// DynamicWorkerPool spins up a goroutine per unit of work, until the maximum
// number of workers has been reached.
//
// This pool will minimize idle memory as goroutines die off once complete,
// but incurs the latency of spinning up goroutines on-the-fly.
type DynamicWorkerPool struct {
	// Workers specifies the maximum allowed number of concurrent workers in
	// this pool. Defaults to NumCPU.
	Workers int
	// sem holds a token per running worker.
	sem  chan struct{}
	once sync.Once
}

// Schedule work on a new goroutine. Blocks while the maximum number of
// workers are busy.
func (p *DynamicWorkerPool) Schedule(work func()) {
	p.once.Do(func() {
		if p.Workers <= 0 {
			p.Workers = runtime.NumCPU()
		}
		p.sem = make(chan struct{}, p.Workers)
	})
	if work == nil {
		return
	}
	p.sem <- struct{}{}
	go func() {
		defer func() { <-p.sem }()
		work()
	}()
}
