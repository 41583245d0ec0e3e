package api

import (
	"errors"
	"net/http"

	"github.com/darmiel/tokenkeep/internal/api/presenter"
	"github.com/darmiel/tokenkeep/internal/tasks"
)

// handleListTasks responds with the list of tasks and their statuses.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	presenter.Success(w, r, "", s.taskManager.ListStatus(), http.StatusOK)
}

type TriggerTaskResponse struct {
	Status string `json:"status"`
}

// handleTriggerTask starts a task in the background.
func (s *Server) handleTriggerTask(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.taskManager.Trigger(name); err != nil {
		taskError(w, r, err)
		return
	}
	presenter.Success(w, r, "Task triggered", TriggerTaskResponse{
		Status: "triggered",
	}, http.StatusAccepted)
}

// handleLogsForTask retrieves logs for a specific task.
func (s *Server) handleLogsForTask(w http.ResponseWriter, r *http.Request) {
	logs, err := s.taskManager.GetLogs(r.PathValue("name"))
	if err != nil {
		taskError(w, r, err)
		return
	}
	presenter.Success(w, r, "", logs, http.StatusOK)
}

func taskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tasks.ErrUnknownTask):
		presenter.Error(w, r, "Task not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, tasks.ErrTaskRunning):
		presenter.Error(w, r, "Task is already running", err.Error(), http.StatusConflict)
	default:
		presenter.Err(w, r, err)
	}
}
