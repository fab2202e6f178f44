package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"ong-client/pkg/mcp"
)

// runMcpServer handles the mcp-server subcommand
func runMcpServer(args []string) {
	fs := flag.NewFlagSet("mcp-server", flag.ExitOnError)
	configFile := fs.String("config", "", "Path to config file (built-in defaults when empty)")
	transport := fs.String("transport", "stdio", "Transport type (stdio, sse)")
	port := fs.Int("port", 8080, "HTTP port (for sse transport)")
	logLevel := fs.String("loglevel", "", "Log level (debug, info, warn, error); overrides config")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: ong-client mcp-server [options]

Start an MCP (Model Context Protocol) server exposing headless screen runs.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Start with stdio transport
  ong-client mcp-server -config config.yaml

  # Start with SSE transport on port 8080
  ong-client mcp-server -config config.yaml -transport sse -port 8080

Available MCP Tools:
  home_status     Load the home screen and report status, dialog and lists
  list_members    Load the members screen, optionally filtered by a query
  start_screen    Start a background run of a screen
  get_job_status  Check a background run
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	os.Exit(doMcpServer(*configFile, *transport, *port, *logLevel, os.Stderr))
}

// doMcpServer is the testable implementation of the MCP server
func doMcpServer(configPath, transport string, port int, logLevel string, stderr io.Writer) int {
	if transport != "stdio" && transport != "sse" {
		fmt.Fprintf(stderr, "Unknown transport: %s (supported: stdio, sse)\n", transport)
		return 1
	}

	appCfg, warnings, err := loadAndValidateConfig(configPath, "")
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	// MCP protocol uses stdout, logs go to stderr
	log := setupLogger(appCfg, logLevel, stderr)
	for _, w := range warnings {
		log.Warn(w)
	}

	bus, closeAnalytics := setupAnalytics(appCfg, log.WithField("component", "mcp"))
	defer closeAnalytics()

	server, err := mcp.NewServer(&mcp.ServerConfig{
		AppConfig: appCfg,
		Transport: transport,
		Port:      port,
		Logger:    log,
		Tracker:   bus,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error creating MCP server: %v\n", err)
		return 1
	}

	log.Infof("Starting MCP server (transport: %s)", transport)

	if err := server.Run(); err != nil {
		fmt.Fprintf(stderr, "MCP server error: %v\n", err)
		return 1
	}
	return 0
}
