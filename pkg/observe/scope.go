package observe

import "sync"

// Scope owns the subscriptions made for one screen lifetime
type Scope struct {
	mu     sync.Mutex
	subs   []*Subscription
	closed bool
}

// NewScope returns an open scope
func NewScope() *Scope {
	return &Scope{}
}

// Add ties sub to the scope. If the scope is already closed sub is
// cancelled immediately.
func (s *Scope) Add(sub *Subscription) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.Cancel()
		return
	}
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
}

// OnClose registers fn to run when the scope closes
func (s *Scope) OnClose(fn func()) {
	s.Add(NewSubscription(fn))
}

// Close cancels every subscription in reverse registration order
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for i := len(subs) - 1; i >= 0; i-- {
		subs[i].Cancel()
	}
}

// Closed reports whether Close has been called
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Len returns the number of live subscriptions
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
