package members

import (
	"github.com/sirupsen/logrus"

	"ong-client/pkg/analytics"
	"ong-client/pkg/models"
	"ong-client/pkg/screen"
	"ong-client/pkg/source"
	"ong-client/pkg/status"
)

// Presenter renders the members screen
type Presenter interface {
	ShowLoading(on bool)
	HideContent()
	RenderMembers(items []models.Member)
	ShowDialog(d screen.Dialog)
}

type Options struct {
	Tracker     analytics.Tracker
	RenderEmpty bool
}

// Controller binds the members view model to a presenter
type Controller struct {
	sess      *screen.Session
	vm        *ViewModel
	presenter Presenter
	tracker   analytics.Tracker
	opts      Options
	log       *logrus.Entry
}

func NewController(sess *screen.Session, vm *ViewModel, p Presenter, opts Options) *Controller {
	tracker := opts.Tracker
	if tracker == nil {
		tracker = analytics.Nop{}
	}
	return &Controller{
		sess:      sess,
		vm:        vm,
		presenter: p,
		tracker:   tracker,
		opts:      opts,
		log:       sess.Log,
	}
}

// Start fetches the members and subscribes the presenter to the loader state
func (c *Controller) Start() {
	c.log.Info("Members screen started")
	c.vm.GetMembers()
	c.sess.Scope.Add(c.vm.Members().State().Observe(c.onState))
}

func (c *Controller) Stop() {
	c.sess.Close()
	c.vm.Close()
	c.log.Info("Members screen stopped")
}

func (c *Controller) onState(st source.State[[]models.Member]) {
	switch st.Status {
	case status.FetchLoading:
		c.presenter.ShowLoading(true)
		c.presenter.HideContent()

	case status.FetchDone:
		if len(st.Data) > 0 || c.opts.RenderEmpty {
			c.presenter.RenderMembers(st.Data)
		}
		c.presenter.ShowLoading(false)
		analytics.MessageEvent(c.tracker, analytics.EventMembersSuccess, analytics.EventMembersSuccess)

	case status.FetchError:
		c.presenter.ShowLoading(false)
		c.log.WithField("error", st.Err).Warn("Showing members error dialog")
		c.presenter.ShowDialog(screen.RetryDialog(screen.MsgMembers, c.vm.GetMembers))
		c.presenter.HideContent()
		analytics.MessageEvent(c.tracker, analytics.EventMembersError, analytics.EventMembersError)
	}
}
