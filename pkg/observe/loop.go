package observe

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrLoopClosed is returned by Run when the loop was already stopped
var ErrLoopClosed = errors.New("loop closed")

// Poster schedules work on the UI thread
type Poster interface {
	Post(fn func()) bool
}

// Immediate runs posted work inline on the caller's goroutine
type Immediate struct{}

// Post runs fn and reports true
func (Immediate) Post(fn func()) bool {
	fn()
	return true
}

// Loop serialises posted tasks onto a single goroutine.
// The queue is unbounded so Post never blocks, including from a task.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
	log    *logrus.Entry
}

// NewLoop creates a loop; call Run to start draining it
func NewLoop(log *logrus.Entry) *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		log:  log,
	}
}

// Post enqueues fn. Returns false if the loop has been closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run executes tasks in FIFO order until ctx is done or Close is called.
// Tasks still queued at that point are discarded.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	l.mu.Unlock()

	for {
		l.mu.Lock()
		if l.closed {
			l.mu.Unlock()
			return nil
		}
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			if ctx.Err() != nil {
				break
			}
			l.run(fn)
		}

		if ctx.Err() != nil {
			l.Close()
			return ctx.Err()
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Close stops accepting tasks and makes Run return
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.queue = nil
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// RunPending drains the queue on the calling goroutine, including tasks
// posted while draining, and returns how many ran. It must not be used
// while Run is active.
func (l *Loop) RunPending() int {
	n := 0
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			l.run(fn)
			n++
		}
	}
}

// Pending returns the number of queued tasks
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Errorf("PANIC in loop task: %v", r)
		}
	}()
	fn()
}
