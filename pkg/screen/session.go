package screen

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	applog "ong-client/pkg/log"
	"ong-client/pkg/observe"
)

// Session is the context of one screen visit. It is created on screen
// entry and closed on exit; nothing it owns outlives Close.
type Session struct {
	ID    string
	Name  string
	Log   *logrus.Entry
	Scope *observe.Scope

	poster observe.Poster
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewSession opens a session for the named screen
func NewSession(parent context.Context, name string, poster observe.Poster, base *logrus.Entry) *Session {
	if poster == nil {
		poster = observe.Immediate{}
	}
	if base == nil {
		base = applog.Discard()
	}
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		ID:     id,
		Name:   name,
		Log:    applog.ForScreen(base, name, id),
		Scope:  observe.NewScope(),
		poster: poster,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context is cancelled when the session closes
func (s *Session) Context() context.Context { return s.ctx }

// Poster returns the UI-thread poster of the session
func (s *Session) Poster() observe.Poster { return s.poster }

// Post runs fn on the UI thread unless the session is closed by then.
// Session is itself a Poster, so retries handed to a presenter die with the screen.
func (s *Session) Post(fn func()) bool {
	if s.ctx.Err() != nil {
		return false
	}
	return s.poster.Post(func() {
		if s.ctx.Err() != nil {
			return
		}
		fn()
	})
}

// Close tears down subscriptions and cancels in-flight work. Idempotent.
func (s *Session) Close() {
	s.once.Do(func() {
		s.cancel()
		s.Scope.Close()
		s.Log.Debug("Session closed")
	})
}

// Closed reports whether Close has been called or the parent context ended
func (s *Session) Closed() bool {
	return s.ctx.Err() != nil
}
