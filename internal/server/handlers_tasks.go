package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"adflow/internal/api"
	"adflow/internal/production"
	"adflow/internal/store"
)

type createTaskPayload struct {
	Type          string     `json:"type"`
	ScriptID      string     `json:"scriptId"`
	AssigneeID    string     `json:"assigneeId"`
	EstimatedTime float64    `json:"estimatedTime"`
	DueDate       *time.Time `json:"dueDate"`
	ScheduledFor  *time.Time `json:"scheduledFor"`
	Notes         string     `json:"notes"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	views, err := s.tasks.List(r.Context(), api.ListTasksRequest{
		Status:     query.Get("status"),
		Type:       query.Get("type"),
		AssigneeID: query.Get("assigneeId"),
		ScriptID:   query.Get("scriptId"),
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tasks": toTaskViewDTOs(views)})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var payload createTaskPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	task, err := s.tasks.Create(r.Context(), api.CreateTaskRequest{
		Type:          payload.Type,
		ScriptID:      payload.ScriptID,
		AssigneeID:    payload.AssigneeID,
		EstimatedTime: payload.EstimatedTime,
		DueDate:       payload.DueDate,
		ScheduledFor:  payload.ScheduledFor,
		Notes:         payload.Notes,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.annotatedTaskDTO(r, task))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.annotatedTaskDTO(r, task))
}

type updateTaskPayload struct {
	Status        *string    `json:"status"`
	AssigneeID    *string    `json:"assigneeId"`
	EstimatedTime *float64   `json:"estimatedTime"`
	ActualTime    *float64   `json:"actualTime"`
	DueDate       *time.Time `json:"dueDate"`
	ScheduledFor  *time.Time `json:"scheduledFor"`
	Notes         *string    `json:"notes"`
	Blockers      *string    `json:"blockers"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var payload updateTaskPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	task, err := s.tasks.Update(r.Context(), mux.Vars(r)["id"], api.UpdateTaskRequest{
		Status:        payload.Status,
		AssigneeID:    payload.AssigneeID,
		EstimatedTime: payload.EstimatedTime,
		ActualTime:    payload.ActualTime,
		DueDate:       payload.DueDate,
		ScheduledFor:  payload.ScheduledFor,
		Notes:         payload.Notes,
		Blockers:      payload.Blockers,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.annotatedTaskDTO(r, task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

// annotatedTaskDTO derives the stage flag from the task's sibling set. A
// failed sibling lookup degrades to unblocked=false rather than failing the
// whole response.
func (s *Server) annotatedTaskDTO(r *http.Request, task *store.Task) taskDTO {
	unblocked := false
	if siblings, err := s.tasks.TasksForScript(r.Context(), task.ScriptID); err == nil {
		unblocked = production.IsStageUnblocked(siblings, task.Type)
	}
	return toTaskDTO(task, unblocked)
}
