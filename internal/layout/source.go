package layout

import (
	"errors"
	"sync"
)

// ErrAlreadyObserving is returned when a Resolver is asked to observe a second source.
var ErrAlreadyObserving = errors.New("resolver already observing a source")

// SizeSource notifies subscribers whenever the observed container changes size.
type SizeSource interface {
	Subscribe(fn func(Size)) (unsubscribe func())
}

// ManualSource is a SizeSource driven by explicit Set calls.
// A new subscriber immediately receives the last size, if any.
type ManualSource struct {
	mu   sync.Mutex
	subs map[int]func(Size)
	next int
	last *Size
}

// NewManualSource creates a source with no size yet.
func NewManualSource() *ManualSource {
	return &ManualSource{subs: make(map[int]func(Size))}
}

// Subscribe registers fn and returns a function that removes it.
func (s *ManualSource) Subscribe(fn func(Size)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	last := s.last
	s.mu.Unlock()

	if last != nil {
		fn(*last)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Set records the new size and notifies every subscriber synchronously.
func (s *ManualSource) Set(size Size) {
	s.mu.Lock()
	s.last = &size
	fns := make([]func(Size), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(size)
	}
}

// Subscribers returns the number of live subscriptions.
func (s *ManualSource) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Resolver turns size notifications into Dimensions.
// It holds at most one subscription at a time.
type Resolver struct {
	mu          sync.Mutex
	margins     Margins
	unsubscribe func()
}

// NewResolver creates a Resolver that applies the given margins.
func NewResolver(m Margins) *Resolver {
	return &Resolver{margins: m}
}

// Observe subscribes to src and calls onChange with fresh Dimensions on every size change.
func (r *Resolver) Observe(src SizeSource, onChange func(Dimensions)) error {
	r.mu.Lock()
	if r.unsubscribe != nil {
		r.mu.Unlock()
		return ErrAlreadyObserving
	}
	// Reserve the slot before subscribing: the source may call back synchronously.
	r.unsubscribe = func() {}
	margins := r.margins
	r.mu.Unlock()

	unsub := src.Subscribe(func(size Size) {
		onChange(Combine(size, margins))
	})

	r.mu.Lock()
	if r.unsubscribe == nil {
		// Closed while subscribing.
		r.mu.Unlock()
		unsub()
		return nil
	}
	r.unsubscribe = unsub
	r.mu.Unlock()
	return nil
}

// Observing reports whether the resolver currently holds a subscription.
func (r *Resolver) Observing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unsubscribe != nil
}

// Close releases the subscription. It is safe to call more than once.
func (r *Resolver) Close() {
	r.mu.Lock()
	unsub := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
