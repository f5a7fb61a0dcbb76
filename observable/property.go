/*
Package observable provides single-value holders that notify registered
observers whenever they are written.

Properties are owned by the goroutine that lays out the UI. They perform no
locking. Work completing on other goroutines must be marshaled back onto the
frame goroutine (see package dispatch) before writing to a Property.
*/
package observable

// Observer is invoked with the previous and the new value of a Property.
type Observer[T any] func(old, new T)

// Property holds a value of type T and notifies observers on every Set.
//
// Observers are not invoked on subscription, only on subsequent writes.
// Writes are not deduplicated: setting a value equal to the current value
// still notifies every observer.
type Property[T any] struct {
	value T
	// observers in registration order. Disposed entries are removed lazily.
	observers []observer[T]
	// notifying counts nested Set calls that are currently fanning out.
	notifying int
}

// New allocates a Property holding v.
func New[T any](v T) *Property[T] {
	return &Property[T]{value: v}
}

// Get returns the current value.
func (p *Property[T]) Get() T {
	return p.value
}

// Set stores v and invokes every live observer with (old, v).
func (p *Property[T]) Set(v T) {
	old := p.value
	p.value = v
	// Iterate a snapshot so observers may subscribe or dispose while
	// being notified.
	snapshot := p.observers
	p.notifying++
	for _, o := range snapshot {
		if o.sub.disposed {
			continue
		}
		o.fn(old, v)
	}
	p.notifying--
	if p.notifying == 0 {
		p.compact()
	}
}

// Observe registers fn and returns the handle that unregisters it.
func (p *Property[T]) Observe(fn Observer[T]) *Subscription {
	if fn == nil {
		fn = func(_, _ T) {}
	}
	s := &Subscription{}
	// Copy on write: a fan-out in progress keeps iterating its snapshot.
	observers := make([]observer[T], len(p.observers), len(p.observers)+1)
	copy(observers, p.observers)
	p.observers = append(observers, observer[T]{fn: fn, sub: s})
	return s
}

// Observers reports the number of live observers.
func (p *Property[T]) Observers() int {
	n := 0
	for _, o := range p.observers {
		if !o.sub.disposed {
			n++
		}
	}
	return n
}

// compact drops disposed subscriptions.
func (p *Property[T]) compact() {
	if p.Observers() == len(p.observers) {
		return
	}
	live := p.observers[:0:0]
	for _, o := range p.observers {
		if !o.sub.disposed {
			live = append(live, o)
		}
	}
	p.observers = live
}

type observer[T any] struct {
	fn  Observer[T]
	sub *Subscription
}

// Subscription is the handle returned by Observe.
type Subscription struct {
	disposed bool
}

// Dispose stops future notifications. Calling it more than once is a no-op.
func (s *Subscription) Dispose() {
	if s == nil {
		return
	}
	s.disposed = true
}

// Disposed reports whether Dispose has been called.
func (s *Subscription) Disposed() bool {
	return s == nil || s.disposed
}

// Bag groups subscriptions so they can be released together.
type Bag struct {
	subs []*Subscription
}

// Add s to the bag.
func (b *Bag) Add(s ...*Subscription) {
	b.subs = append(b.subs, s...)
}

// Len returns the number of subscriptions held.
func (b *Bag) Len() int {
	return len(b.subs)
}

// Dispose every subscription in the bag and empty it.
func (b *Bag) Dispose() {
	for _, s := range b.subs {
		s.Dispose()
	}
	b.subs = nil
}
