package mcp

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the current state of a background screen run
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job is one background headless run of a screen
type Job struct {
	ID           string    `json:"id"`
	Screen       string    `json:"screen"`
	Status       JobStatus `json:"status"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at,omitempty"`
	Report       *Report   `json:"report,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`

	ctx    context.Context
	cancel context.CancelFunc
}

func (j *Job) finished() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed || j.Status == JobStatusCancelled
}

// JobManager tracks background screen runs. At most one run per screen is
// active at a time.
type JobManager struct {
	jobs     map[string]*Job
	mu       sync.RWMutex
	byScreen map[string]string // screen -> jobID for active runs
}

// NewJobManager creates a new job manager
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:     make(map[string]*Job),
		byScreen: make(map[string]string),
	}
}

// CreateJob registers a run for screen. If one is already active it is
// returned instead, with created=false.
func (m *JobManager) CreateJob(parent context.Context, screen string) (job Job, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existingID, exists := m.byScreen[screen]; exists {
		if existing := m.jobs[existingID]; existing != nil && !existing.finished() {
			return *existing, false
		}
	}

	ctx, cancel := context.WithCancel(parent)
	j := &Job{
		ID:        uuid.NewString(),
		Screen:    screen,
		Status:    JobStatusPending,
		StartedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
	m.jobs[j.ID] = j
	m.byScreen[screen] = j.ID
	return *j, true
}

// GetJob returns a copy of the job, or false if unknown
func (m *JobManager) GetJob(jobID string) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// IsRunning checks whether a run is active for screen
func (m *JobManager) IsRunning(screen string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if jobID, exists := m.byScreen[screen]; exists {
		j := m.jobs[jobID]
		return j != nil && !j.finished()
	}
	return false
}

// MarkRunning moves a pending job to running
func (m *JobManager) MarkRunning(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j, ok := m.jobs[jobID]; ok && j.Status == JobStatusPending {
		j.Status = JobStatusRunning
	}
}

// Finish records the outcome of a run. Cancelled jobs keep their status.
func (m *JobManager) Finish(jobID string, status JobStatus, report *Report, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if j.Status != JobStatusCancelled {
		j.Status = status
		j.CompletedAt = time.Now()
	}
	j.Report = report
	if errorMsg != "" {
		j.ErrorMessage = errorMsg
	}
	j.cancel()
	if m.byScreen[j.Screen] == jobID {
		delete(m.byScreen, j.Screen)
	}
}

// CancelJob cancels an active run
func (m *JobManager) CancelJob(jobID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if j, exists := m.jobs[jobID]; exists && !j.finished() {
		j.cancel()
		j.Status = JobStatusCancelled
		j.CompletedAt = time.Now()
		delete(m.byScreen, j.Screen)
		return true
	}
	return false
}

// CancelAll cancels every active run
func (m *JobManager) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, j := range m.jobs {
		if !j.finished() {
			j.cancel()
			j.Status = JobStatusCancelled
			j.CompletedAt = time.Now()
		}
	}
	m.byScreen = make(map[string]string)
}

// ListJobs returns copies of all jobs, oldest first
func (m *JobManager) ListJobs() []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		jobs = append(jobs, *j)
	}
	sort.Slice(jobs, func(a, b int) bool { return jobs[a].StartedAt.Before(jobs[b].StartedAt) })
	return jobs
}

// GetContext returns the context a run executes under
func (m *JobManager) GetContext(jobID string) context.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if j, exists := m.jobs[jobID]; exists {
		return j.ctx
	}
	return context.Background()
}
