package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"ong-client/pkg/api"
	"ong-client/pkg/config"
	"ong-client/pkg/home"
	"ong-client/pkg/members"
	"ong-client/pkg/screen"
	"ong-client/pkg/status"
	"ong-client/pkg/term"
)

// screenOptions are the flags shared by the home and members commands
type screenOptions struct {
	ConfigPath  string
	APIURL      string
	LogLevel    string
	Interactive bool
}

// runScreen handles the home and members subcommands
func runScreen(name string, args []string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	var opts screenOptions
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to config file (built-in defaults when empty)")
	fs.StringVar(&opts.APIURL, "api", "", "Override api_base_url")
	fs.StringVar(&opts.LogLevel, "loglevel", "", "Log level (debug, info, warn, error); overrides config")
	fs.BoolVar(&opts.Interactive, "interactive", false, "Ask before retrying when an error dialog is shown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ong-client %s [options]\n\nOptions:\n", name)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  ong-client %s\n", name)
		fmt.Fprintf(os.Stderr, "  ong-client %s -interactive -config config.yaml\n", name)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	os.Exit(doScreen(context.Background(), name, opts, os.Stdin, os.Stdout, os.Stderr))
}

// doScreen runs one screen session and renders it as text.
// Returns exit code (0 = screen loaded, 1 = error state or failure).
func doScreen(parent context.Context, name string, opts screenOptions, stdin io.Reader, stdout, stderr io.Writer) int {
	appCfg, warnings, err := loadAndValidateConfig(opts.ConfigPath, opts.APIURL)
	if err != nil {
		fmt.Fprintf(stderr, "Config error: %v\n", err)
		return 1
	}

	log := setupLogger(appCfg, opts.LogLevel, stderr)
	for _, w := range warnings {
		log.Warn(w)
	}
	logEntry := log.WithField("component", "cli")

	ctx, stop := withSignals(parent, log)
	defer stop()
	if !opts.Interactive {
		// Nobody can answer a dialog, so bound the whole run
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, appCfg.ScreenTimeout)
		defer cancel()
	}

	bus, closeAnalytics := setupAnalytics(appCfg, logEntry)
	defer closeAnalytics()

	client := api.NewClient(appCfg, logEntry)

	var in io.Reader
	if opts.Interactive {
		in = stdin
	}
	presenter := term.New(stdout, in, logEntry)
	bind := func(sess *screen.Session, stop func()) {
		presenter.Attach(sess, func(screen.Dialog) { stop() })
	}

	var ok bool
	switch name {
	case config.ScreenHome:
		rc := home.RunConfigFor(appCfg, bus, logEntry)
		rc.WaitOnError = opts.Interactive
		rc.Bind = bind
		var agg status.AggregateStatus
		agg, err = home.Run(ctx, client, presenter, rc)
		ok = err == nil && agg == status.Done
		logEntry.WithField("aggregate", agg.String()).Info("Home screen finished")
	case config.ScreenMembers:
		rc := members.RunConfigFor(appCfg, bus, logEntry)
		rc.WaitOnError = opts.Interactive
		rc.Bind = bind
		var st status.FetchStatus
		st, err = members.Run(ctx, client, presenter, rc)
		ok = err == nil && st == status.FetchDone
		logEntry.WithField("status", st.String()).Info("Members screen finished")
	default:
		fmt.Fprintf(stderr, "Unknown screen: %s\n", name)
		return 1
	}

	if err != nil {
		logEntry.Errorf("Screen did not settle: %v", err)
	}
	if !ok {
		return 1
	}
	return 0
}
