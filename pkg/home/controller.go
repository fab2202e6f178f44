package home

import (
	"github.com/sirupsen/logrus"

	"ong-client/pkg/analytics"
	"ong-client/pkg/models"
	"ong-client/pkg/screen"
	"ong-client/pkg/source"
	"ong-client/pkg/status"
)

// Presenter renders the home screen
type Presenter interface {
	ShowLoading(on bool)
	ShowDialog(d screen.Dialog)
	RenderSlides(items []models.Slide)
	RenderNews(items []models.News)
	RenderTestimonials(items []models.Testimonial)
}

// Options tune controller behaviour
type Options struct {
	Tracker analytics.Tracker
	// RenderEmpty also renders successfully fetched empty lists
	RenderEmpty bool
}

// Controller binds the view model to a presenter for one session
type Controller struct {
	sess      *screen.Session
	vm        *ViewModel
	presenter Presenter
	tracker   analytics.Tracker
	opts      Options
	log       *logrus.Entry
}

// NewController wires a controller; nothing happens until Start
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

// Start fetches all three sources and subscribes the presenter. It must run
// on the session's UI thread.
func (c *Controller) Start() {
	c.log.Info("Home screen started")
	c.vm.UpdateHome()

	agg := c.vm.Aggregator()
	scope := c.sess.Scope
	scope.Add(agg.AddSource(status.SourceSlides, c.vm.Slides().Status()))
	scope.Add(agg.AddSource(status.SourceNews, c.vm.News().Status()))
	scope.Add(agg.AddSource(status.SourceTestimonials, c.vm.Testimonials().Status()))
	scope.Add(agg.Status().Observe(c.onStatus))

	scope.Add(c.vm.Slides().State().Observe(func(st source.State[[]models.Slide]) {
		if c.renderable(st.Status, len(st.Data)) {
			c.presenter.RenderSlides(st.Data)
		}
	}))
	scope.Add(c.vm.News().State().Observe(func(st source.State[[]models.News]) {
		if c.renderable(st.Status, len(st.Data)) {
			c.presenter.RenderNews(st.Data)
		}
	}))
	scope.Add(c.vm.Testimonials().State().Observe(func(st source.State[[]models.Testimonial]) {
		if c.renderable(st.Status, len(st.Data)) {
			c.presenter.RenderTestimonials(st.Data)
		}
	}))
}

// Stop tears the session down
func (c *Controller) Stop() {
	c.sess.Close()
	c.vm.Close()
	c.log.Info("Home screen stopped")
}

func (c *Controller) renderable(st status.FetchStatus, n int) bool {
	return st == status.FetchDone && (n > 0 || c.opts.RenderEmpty)
}

func (c *Controller) onStatus(agg status.AggregateStatus) {
	switch {
	case agg == status.Loading:
		c.presenter.ShowLoading(true)
	case agg == status.Done:
		c.presenter.ShowLoading(false)
		analytics.MessageEvent(c.tracker, analytics.EventHomeSuccess, analytics.EventHomeSuccess)
	case agg.IsError():
		c.showError(c.vm.Aggregator().Classify())
	}
}

func (c *Controller) showError(class status.ErrorClass) {
	var retry func()
	switch class {
	case status.ClassGeneral:
		retry = c.vm.UpdateHome
	case status.ClassSlides:
		retry = c.vm.GetSlides
	case status.ClassNews:
		retry = c.vm.GetNews
	case status.ClassTestimonials:
		retry = c.vm.GetTestimonials
	default:
		return
	}

	msg := screen.HomeMessage(class)
	c.log.WithField("class", int(class)).Warnf("Showing error dialog: %s", msg)
	c.presenter.ShowDialog(screen.RetryDialog(msg, retry))
	analytics.MessageEvent(c.tracker, analytics.EventHomeError, msg)
}
