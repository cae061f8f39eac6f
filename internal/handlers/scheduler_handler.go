package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/interfaces"
)

// SchedulerHandler reports and triggers maintenance jobs
type SchedulerHandler struct {
	scheduler interfaces.SchedulerService
	logger    arbor.ILogger
}

// NewSchedulerHandler creates the handler. scheduler is nil when disabled.
func NewSchedulerHandler(scheduler interfaces.SchedulerService, logger arbor.ILogger) *SchedulerHandler {
	return &SchedulerHandler{
		scheduler: scheduler,
		logger:    logger,
	}
}

// ListJobsHandler returns the status of every job
func (h *SchedulerHandler) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"running": false,
			"jobs":    []*interfaces.JobStatus{},
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"running": h.scheduler.IsRunning(),
		"jobs":    h.scheduler.GetAllJobStatuses(),
	})
}

// RunJobHandler runs a job now and returns its status
func (h *SchedulerHandler) RunJobHandler(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		WriteError(w, http.StatusServiceUnavailable, "Scheduler is disabled")
		return
	}

	name := chi.URLParam(r, "name")
	if _, err := h.scheduler.GetJobStatus(name); err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	if err := h.scheduler.TriggerJob(name); err != nil {
		h.logger.Warn().Err(err).Str("job_name", name).Msg("Manual job run failed")
	}

	status, err := h.scheduler.GetJobStatus(name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, status)
}
