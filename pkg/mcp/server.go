package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"ong-client/pkg/analytics"
	"ong-client/pkg/api"
	"ong-client/pkg/config"
	"ong-client/pkg/home"
	"ong-client/pkg/members"
)

const (
	serverName    = "ong-client"
	serverVersion = "1.0.0"
)

// Backend is the API surface both screens need
type Backend interface {
	home.ContentAPI
	members.MembersAPI
}

// ServerConfig holds configuration for the MCP server
type ServerConfig struct {
	AppConfig *config.AppConfig
	Transport string // "stdio" or "sse"
	Port      int
	Logger    *logrus.Logger
	// Backend defaults to the REST client built from AppConfig
	Backend Backend
	Tracker analytics.Tracker
}

// Server exposes headless screen runs as MCP tools
type Server struct {
	mcpServer  *server.MCPServer
	cfg        *ServerConfig
	log        *logrus.Entry
	backend    Backend
	tracker    analytics.Tracker
	jobManager *JobManager
}

// NewServer creates a new MCP server instance
func NewServer(cfg *ServerConfig) (*Server, error) {
	if cfg.AppConfig == nil {
		return nil, fmt.Errorf("AppConfig is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	log := cfg.Logger.WithField("component", "mcp")

	backend := cfg.Backend
	if backend == nil {
		backend = api.NewClient(cfg.AppConfig, log)
	}
	tracker := cfg.Tracker
	if tracker == nil {
		tracker = analytics.Nop{}
	}

	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithLogging(),
	)

	s := &Server{
		mcpServer:  mcpServer,
		cfg:        cfg,
		log:        log,
		backend:    backend,
		tracker:    tracker,
		jobManager: NewJobManager(),
	}
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	homeTool := mcp.NewTool("home_status",
		mcp.WithDescription("Load the home screen (slides, news, testimonials) and report its aggregate status, any error dialog and the rendered lists"),
	)
	s.mcpServer.AddTool(homeTool, s.handleHomeStatus)

	membersTool := mcp.NewTool("list_members",
		mcp.WithDescription("Load the members screen and report its status and the rendered members"),
		mcp.WithString("query",
			mcp.Description("Only return members whose name or description contains this text (case-insensitive)"),
		),
	)
	s.mcpServer.AddTool(membersTool, s.handleListMembers)

	startTool := mcp.NewTool("start_screen",
		mcp.WithDescription("Start a background run of a screen. Returns immediately with a job ID."),
		mcp.WithString("screen",
			mcp.Required(),
			mcp.Description("Screen to run: 'home' or 'members'"),
		),
	)
	s.mcpServer.AddTool(startTool, s.handleStartScreen)

	statusTool := mcp.NewTool("get_job_status",
		mcp.WithDescription("Get the status and report of a background screen run"),
		mcp.WithString("job_id",
			mcp.Required(),
			mcp.Description("The job ID returned by start_screen"),
		),
	)
	s.mcpServer.AddTool(statusTool, s.handleGetJobStatus)

	s.log.Infof("Registered %d MCP tools", 4)
}

// Run starts the MCP server with the configured transport
func (s *Server) Run() error {
	switch s.cfg.Transport {
	case "stdio":
		s.log.Info("Starting MCP server with stdio transport")
		return server.ServeStdio(s.mcpServer)
	case "sse":
		addr := fmt.Sprintf(":%d", s.cfg.Port)
		s.log.Infof("Starting MCP server with SSE transport on %s", addr)
		sseServer := server.NewSSEServer(s.mcpServer)
		return sseServer.Start(addr)
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio, sse)", s.cfg.Transport)
	}
}

// Shutdown cancels background runs
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down MCP server...")
	s.jobManager.CancelAll()
	return nil
}
