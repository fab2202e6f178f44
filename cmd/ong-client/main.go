package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"ong-client/pkg/analytics"
	"ong-client/pkg/config"
	applog "ong-client/pkg/log"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "home":
		runScreen(config.ScreenHome, os.Args[2:])
	case "members":
		runScreen(config.ScreenMembers, os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "mcp-server":
		runMcpServer(os.Args[2:])
	case "version":
		fmt.Printf("ong-client %s\n", version)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printUsageTo(os.Stdout)
}

// printUsageTo writes usage information to the provided writer.
func printUsageTo(w io.Writer) {
	fmt.Fprintln(w, `ong-client - ONG home and members screens from the command line

Usage:
  ong-client <command> [options]

Commands:
  home        Load the home screen (slides, news, testimonials)
  members     Load the members screen
  validate    Validate configuration file
  mcp-server  Start MCP server for AI tool integration
  version     Show version info

Run 'ong-client <command> -h' for command-specific help.`)
}

// runValidate handles the validate subcommand
func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configFile := fs.String("config", "", "Path to config file (built-in defaults when empty)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ong-client validate [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	os.Exit(doValidate(*configFile, os.Stdout, os.Stderr))
}

// doValidate validates the config and prints the effective settings.
// Returns exit code (0 = success, 1 = error).
func doValidate(configPath string, stdout, stderr io.Writer) int {
	appCfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	warnings, err := appCfg.Validate()
	for _, w := range warnings {
		fmt.Fprintf(stdout, "WARN: %s\n", w)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "API: %s\n", appCfg.APIBaseURL)
	fmt.Fprintf(stdout, "Retries: max %d, delay %v..%v\n", appCfg.MaxRetries, appCfg.InitialRetryDelay, appCfg.MaxRetryDelay)
	fmt.Fprintf(stdout, "Timeouts: fetch %v, screen %v\n", appCfg.FetchTimeout, appCfg.ScreenTimeout)
	for _, name := range []string{config.ScreenHome, config.ScreenMembers} {
		sc := appCfg.Screen(name)
		fmt.Fprintf(stdout, "Screen %s: fetch_timeout=%v analytics=%t render_empty_lists=%t\n",
			name,
			config.GetEffectiveFetchTimeout(sc, *appCfg),
			config.GetEffectiveEnableAnalytics(sc, *appCfg),
			config.GetEffectiveRenderEmptyLists(sc))
	}
	fmt.Fprintln(stdout, "Configuration OK")
	return 0
}

// loadAndValidateConfig loads the config file, applies the API override and
// defaults, and returns any warnings
func loadAndValidateConfig(configPath, apiURL string) (*config.AppConfig, []string, error) {
	appCfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if apiURL != "" {
		appCfg.APIBaseURL = apiURL
	}
	warnings, err := appCfg.Validate()
	if err != nil {
		return nil, warnings, err
	}
	return appCfg, warnings, nil
}

// setupLogger builds the process logger. An explicit level flag wins over the config.
func setupLogger(appCfg *config.AppConfig, levelOverride string, out io.Writer) *logrus.Logger {
	level := appCfg.LogLevel
	if levelOverride != "" {
		level = levelOverride
	}
	log, warnings := applog.New(level, appCfg.LogFormat, out)
	for _, w := range warnings {
		log.Warn(w)
	}
	return log
}

// setupAnalytics builds the event bus with its configured sinks. The returned
// func releases the bus and stops the metrics endpoint.
func setupAnalytics(appCfg *config.AppConfig, log *logrus.Entry) (*analytics.Bus, func()) {
	bus := analytics.NewBus(log)
	var closers []func()
	closers = append(closers, bus.Close)

	if appCfg.Analytics.LogEvents {
		closers = append(closers, bus.Subscribe(analytics.LogSink(log.WithField("component", "analytics"))))
	}

	if appCfg.Analytics.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics := analytics.NewMetrics(reg)
		closers = append(closers, bus.Subscribe(metrics.Sink()))
		closers = append(closers, startMetrics(appCfg.Analytics.MetricsAddr, reg, log))
	}

	return bus, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

// startMetrics serves the registry on addr until the returned func is called
func startMetrics(addr string, reg *prometheus.Registry, log *logrus.Entry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Infof("Serving metrics at http://%s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Metrics server error: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warnf("Metrics server shutdown: %v", err)
		}
	}
}

// withSignals returns a context cancelled on SIGINT/SIGTERM. A second signal forces exit.
func withSignals(parent context.Context, log *logrus.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("PANIC in signal handler: %v", r)
			}
		}()
		select {
		case sig := <-sigChan:
			log.Warnf("Received signal: %v. Closing screen...", sig)
			cancel()
		case <-ctx.Done():
			return
		}

		select {
		case sig := <-sigChan:
			log.Warnf("Received second signal: %v. Forcing exit.", sig)
			os.Exit(1)
		case <-time.After(10 * time.Second):
			log.Warn("Shutdown period exceeded after signal. Forcing exit.")
			os.Exit(1)
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
