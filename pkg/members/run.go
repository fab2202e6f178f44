package members

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

// RunConfig drives a self-contained members session
type RunConfig struct {
	Options      Options
	FetchTimeout time.Duration
	WaitOnError  bool
	Bind         func(sess *screen.Session, stop func())
	Log          *logrus.Entry
}

// Run opens a members session on its own loop and blocks until the fetch
// settles, returning the last status seen
func Run(ctx context.Context, api MembersAPI, p Presenter, cfg RunConfig) (status.FetchStatus, error) {
	log := cfg.Log
	if log == nil {
		log = applog.Discard()
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := observe.NewLoop(log)
	sess := screen.NewSession(runCtx, config.ScreenMembers, loop, log)
	vm := NewViewModel(sess, api, cfg.FetchTimeout)
	ctrl := NewController(sess, vm, p, cfg.Options)
	if cfg.Bind != nil {
		cfg.Bind(sess, cancel)
	}

	last := status.FetchLoading
	loop.Post(func() {
		ctrl.Start()
		sess.Scope.Add(vm.Members().Status().Observe(func(st status.FetchStatus) {
			last = st
			if st == status.FetchDone || (st == status.FetchError && !cfg.WaitOnError) {
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
		sess.Log.WithField("status", last.String()).Warnf("Members session ended early: %v", err)
	}
	return last, err
}

// RunConfigFor derives the run settings of the members screen from the app
// config. tracker is dropped when analytics are disabled for the screen.
func RunConfigFor(cfg *config.AppConfig, tracker analytics.Tracker, log *logrus.Entry) RunConfig {
	sc := cfg.Screen(config.ScreenMembers)
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
