package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"ong-client/pkg/config"
	"ong-client/pkg/home"
	"ong-client/pkg/members"
	"ong-client/pkg/screen"
)

// handleHomeStatus handles the home_status tool
func (s *Server) handleHomeStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.runHome(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("home screen did not settle: %v", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(report)), nil
}

// handleListMembers handles the list_members tool
func (s *Server) handleListMembers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.runMembers(ctx, request.GetString("query", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("members screen did not settle: %v", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(report)), nil
}

// handleStartScreen handles the start_screen tool
func (s *Server) handleStartScreen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("screen", "")
	if name != config.ScreenHome && name != config.ScreenMembers {
		return mcp.NewToolResultError(fmt.Sprintf("unknown screen '%s' (supported: home, members)", name)), nil
	}

	// Background runs outlive the tool call, so they hang off the server, not ctx
	job, created := s.jobManager.CreateJob(context.Background(), name)
	if !created {
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"job_id":  job.ID,
			"status":  job.Status,
			"message": "A run for this screen is already in progress",
		})), nil
	}

	go s.runJob(job.ID, name)

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"job_id":  job.ID,
		"screen":  name,
		"status":  JobStatusPending,
		"message": "Run started. Use get_job_status to check progress.",
	})), nil
}

// handleGetJobStatus handles the get_job_status tool
func (s *Server) handleGetJobStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID := request.GetString("job_id", "")
	if jobID == "" {
		return mcp.NewToolResultError("job_id parameter is required"), nil
	}
	job, ok := s.jobManager.GetJob(jobID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("job not found: %s", jobID)), nil
	}

	result := map[string]interface{}{
		"job_id":     job.ID,
		"screen":     job.Screen,
		"status":     job.Status,
		"started_at": job.StartedAt.Format(time.RFC3339),
	}
	if !job.CompletedAt.IsZero() {
		result["completed_at"] = job.CompletedAt.Format(time.RFC3339)
		result["duration"] = job.CompletedAt.Sub(job.StartedAt).String()
	}
	if job.Report != nil {
		result["report"] = job.Report
	}
	if job.ErrorMessage != "" {
		result["error"] = job.ErrorMessage
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

func (s *Server) runJob(jobID, name string) {
	ctx := s.jobManager.GetContext(jobID)
	s.jobManager.MarkRunning(jobID)
	jobLog := s.log.WithFields(logrus.Fields{"job_id": jobID, "screen": name})
	jobLog.Info("Background screen run started")

	var report *Report
	var err error
	if name == config.ScreenHome {
		report, err = s.runHome(ctx)
	} else {
		report, err = s.runMembers(ctx, "")
	}

	if err != nil {
		jobLog.Warnf("Background screen run failed: %v", err)
		s.jobManager.Finish(jobID, JobStatusFailed, report, err.Error())
		return
	}
	jobLog.WithField("status", report.Status).Info("Background screen run completed")
	s.jobManager.Finish(jobID, JobStatusCompleted, report, "")
}

// runHome drives one headless home session bounded by the screen timeout
func (s *Server) runHome(ctx context.Context) (*Report, error) {
	ctx, cancel := s.screenContext(ctx)
	defer cancel()

	rec := screen.NewRecorder()
	start := time.Now()
	agg, err := home.Run(ctx, s.backend, rec, home.RunConfigFor(s.cfg.AppConfig, s.tracker, s.log))
	report := newReport(config.ScreenHome, agg.String(), rec, time.Since(start))
	if agg.IsError() {
		report.ErrorClass = int(agg.Class())
	}
	return report, err
}

// runMembers drives one headless members session bounded by the screen timeout
func (s *Server) runMembers(ctx context.Context, query string) (*Report, error) {
	ctx, cancel := s.screenContext(ctx)
	defer cancel()

	rec := screen.NewRecorder()
	start := time.Now()
	st, err := members.Run(ctx, s.backend, rec, members.RunConfigFor(s.cfg.AppConfig, s.tracker, s.log))
	report := newReport(config.ScreenMembers, st.String(), rec, time.Since(start))
	report.Members = filterMembers(rec.Members(), query)
	return report, err
}

func (s *Server) screenContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := s.cfg.AppConfig.ScreenTimeout; timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// formatJSON formats data as an indented JSON string
func formatJSON(data interface{}) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("{\"error\": %q}", err.Error())
	}
	return string(b)
}
