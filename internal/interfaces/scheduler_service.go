package interfaces

import (
	"context"
	"time"
)

// JobHandler is the body of a scheduled job
type JobHandler func(ctx context.Context) error

// JobStatus represents the current status of a scheduled job
type JobStatus struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Description string     `json:"description"`
	IsRunning   bool       `json:"is_running"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	RunCount    int        `json:"run_count"`
}

// SchedulerService manages cron-based maintenance jobs
type SchedulerService interface {
	// RegisterJob registers a job; it fires once the scheduler is started
	RegisterJob(name, schedule, description string, handler JobHandler) error

	// Start the scheduler
	Start() error

	// Stop the scheduler, waiting for a running job
	Stop() error

	// IsRunning returns true if scheduler is active
	IsRunning() bool

	// TriggerJob runs a job now and returns its error
	TriggerJob(name string) error

	// GetJobStatus returns the status of a specific job
	GetJobStatus(name string) (*JobStatus, error)

	// GetAllJobStatuses returns all job statuses sorted by name
	GetAllJobStatuses() []*JobStatus
}
