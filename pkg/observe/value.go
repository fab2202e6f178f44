package observe

import (
	"sync"
)

// Value is an observable holder. Every Set notifies each observer exactly
// once, in subscription order, on the calling goroutine.
type Value[T any] struct {
	mu        sync.Mutex
	current   T
	hasValue  bool
	nextID    uint64
	observers []observer[T]
}

type observer[T any] struct {
	id uint64
	fn func(T)
}

// NewValue returns an empty holder
func NewValue[T any]() *Value[T] {
	return &Value[T]{}
}

// Set stores v and notifies observers. Equal consecutive values are still
// delivered; callers rely on one notification per Set.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.current = val
	v.hasValue = true
	snapshot := make([]observer[T], len(v.observers))
	copy(snapshot, v.observers)
	v.mu.Unlock()

	// Notify outside the lock so observers may Set other holders (or this one)
	for _, o := range snapshot {
		if v.active(o.id) {
			o.fn(val)
		}
	}
}

// Get returns the last stored value and whether one was ever set
func (v *Value[T]) Get() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.hasValue
}

// Observe registers fn. If a value is already held, fn receives it
// immediately before Observe returns.
func (v *Value[T]) Observe(fn func(T)) *Subscription {
	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.observers = append(v.observers, observer[T]{id: id, fn: fn})
	current, has := v.current, v.hasValue
	v.mu.Unlock()

	sub := newSubscription(func() { v.remove(id) })
	if has {
		fn(current)
	}
	return sub
}


func (v *Value[T]) active(id uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, o := range v.observers {
		if o.id == id {
			return true
		}
	}
	return false
}

func (v *Value[T]) remove(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, o := range v.observers {
		if o.id == id {
			v.observers = append(v.observers[:i:i], v.observers[i+1:]...)
			return
		}
	}
}

// Subscription detaches an observer when cancelled
type Subscription struct {
	once   sync.Once
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// NewSubscription wraps an arbitrary teardown func
func NewSubscription(cancel func()) *Subscription {
	return newSubscription(cancel)
}

// Cancel detaches the observer. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}
