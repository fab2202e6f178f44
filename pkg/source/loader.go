package source

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"ong-client/pkg/observe"
	"ong-client/pkg/status"
	"ong-client/pkg/utils"
)

// FetchFunc loads one resource
type FetchFunc[T any] func(ctx context.Context) (T, error)

// State is the last outcome of a loader. Data is only meaningful when
// Status is FetchDone, Err only when it is FetchError.
type State[T any] struct {
	Status status.FetchStatus
	Data   T
	Err    error
}

// Loader runs a FetchFunc on demand and publishes its progress through
// observable holders. Holders are only ever mutated from the poster.
type Loader[T any] struct {
	name    string
	fetch   FetchFunc[T]
	poster  observe.Poster
	timeout time.Duration
	log     *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc

	inFlight atomic.Bool
	wg       sync.WaitGroup

	status *observe.Value[status.FetchStatus]
	state  *observe.Value[State[T]]
}

// Options configure a Loader
type Options struct {
	// Timeout bounds a single fetch; zero means no per-fetch deadline
	Timeout time.Duration
	Poster  observe.Poster
	Log     *logrus.Entry
}

// New creates a loader bound to parent. Cancelling parent has the same
// effect as Close.
func New[T any](parent context.Context, name string, fetch FetchFunc[T], opts Options) *Loader[T] {
	ctx, cancel := context.WithCancel(parent)
	poster := opts.Poster
	if poster == nil {
		poster = observe.Immediate{}
	}
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Loader[T]{
		name:    name,
		fetch:   fetch,
		poster:  poster,
		timeout: opts.Timeout,
		log:     log.WithField("source", name),
		ctx:     ctx,
		cancel:  cancel,
		status:  observe.NewValue[status.FetchStatus](),
		state:   observe.NewValue[State[T]](),
	}
}

// Status is the observable fetch status. It stays unset until the first Trigger.
func (l *Loader[T]) Status() *observe.Value[status.FetchStatus] { return l.status }

// State is the observable outcome, carrying data or error alongside the status
func (l *Loader[T]) State() *observe.Value[State[T]] { return l.state }

// InFlight reports whether a fetch is running or its result is still queued
func (l *Loader[T]) InFlight() bool { return l.inFlight.Load() }

// Trigger starts a fetch unless one is already running or the loader is closed
func (l *Loader[T]) Trigger() {
	if l.ctx.Err() != nil {
		l.log.Debug("Trigger on closed loader ignored")
		return
	}
	if !l.inFlight.CompareAndSwap(false, true) {
		l.log.Debug("Fetch already in flight, trigger ignored")
		return
	}

	l.post(func() {
		l.state.Set(State[T]{Status: status.FetchLoading})
		l.status.Set(status.FetchLoading)
	})

	l.wg.Add(1)
	go l.run()
}

func (l *Loader[T]) run() {
	defer l.wg.Done()

	ctx := l.ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(l.ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	data, err := l.fetch(ctx)

	if l.ctx.Err() != nil {
		l.inFlight.Store(false)
		l.log.Debug("Loader closed, dropping fetch result")
		return
	}

	fields := logrus.Fields{"duration": time.Since(start)}
	if err != nil {
		err = utils.WrapErrorf(err, "%s", l.name)
		l.log.WithFields(fields).WithField("category", utils.CategorizeError(err)).Warnf("Fetch failed: %v", err)
		l.finish(func() {
			l.state.Set(State[T]{Status: status.FetchError, Err: err})
			l.status.Set(status.FetchError)
		})
		return
	}

	l.log.WithFields(fields).Debug("Fetch done")
	l.finish(func() {
		l.state.Set(State[T]{Status: status.FetchDone, Data: data})
		l.status.Set(status.FetchDone)
	})
}

// finish posts the result. The in-flight flag is cleared on the UI thread
// together with it, so a Trigger can never queue Loading ahead of a stale result.
func (l *Loader[T]) finish(fn func()) {
	posted := l.post(func() {
		l.inFlight.Store(false)
		fn()
	})
	if !posted {
		l.inFlight.Store(false)
	}
}

// post hands fn to the poster, skipping it if the loader closed meanwhile
func (l *Loader[T]) post(fn func()) bool {
	ok := l.poster.Post(func() {
		if l.ctx.Err() != nil {
			return
		}
		fn()
	})
	if !ok {
		l.log.Debug("Poster rejected update")
	}
	return ok
}

// Close cancels any in-flight fetch and stops further updates
func (l *Loader[T]) Close() {
	l.cancel()
}

// Wait blocks until every fetch goroutine started by Trigger has returned
func (l *Loader[T]) Wait() {
	l.wg.Wait()
}
