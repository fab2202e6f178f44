package home

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"ong-client/pkg/analytics"
	"ong-client/pkg/config"
	applog "ong-client/pkg/log"
	"ong-client/pkg/observe"
	"ong-client/pkg/screen"
	"ong-client/pkg/status"
)

// RunConfig drives a self-contained home session
type RunConfig struct {
	Options      Options
	FetchTimeout time.Duration
	// WaitOnError keeps the session open after an error dialog so the user
	// can retry; the session then ends on Done, on stop or when ctx ends.
	WaitOnError bool
	// Bind runs before the screen starts, with the session and a func that ends it
	Bind func(sess *screen.Session, stop func())
	Log  *logrus.Entry
}

// Run opens a home session on its own loop and blocks until the aggregate
// settles, returning the last aggregate status seen
func Run(ctx context.Context, api ContentAPI, p Presenter, cfg RunConfig) (status.AggregateStatus, error) {
	log := cfg.Log
	if log == nil {
		log = applog.Discard()
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := observe.NewLoop(log)
	sess := screen.NewSession(runCtx, config.ScreenHome, loop, log)
	vm := NewViewModel(sess, api, cfg.FetchTimeout)
	ctrl := NewController(sess, vm, p, cfg.Options)
	if cfg.Bind != nil {
		cfg.Bind(sess, cancel)
	}

	last := status.Loading
	loop.Post(func() {
		ctrl.Start()
		sess.Scope.Add(vm.Aggregator().Status().Observe(func(agg status.AggregateStatus) {
			last = agg
			if agg == status.Done || (agg.IsError() && !cfg.WaitOnError) {
				cancel()
			}
		}))
	})

	err := loop.Run(runCtx)
	ctrl.Stop()
	vm.Wait()

	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		err = nil
	}
	if err != nil {
		sess.Log.WithField("aggregate", last.String()).Warnf("Home session ended early: %v", err)
	}
	return last, err
}

// RunConfigFor derives the run settings of the home screen from the app
// config. tracker is dropped when analytics are disabled for the screen.
func RunConfigFor(cfg *config.AppConfig, tracker analytics.Tracker, log *logrus.Entry) RunConfig {
	sc := cfg.Screen(config.ScreenHome)
	if !config.GetEffectiveEnableAnalytics(sc, *cfg) {
		tracker = analytics.Nop{}
	}
	return RunConfig{
		Options: Options{
			Tracker:     tracker,
			RenderEmpty: config.GetEffectiveRenderEmptyLists(sc),
		},
		FetchTimeout: config.GetEffectiveFetchTimeout(sc, *cfg),
		Log:          log,
	}
}
