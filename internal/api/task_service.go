package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"adflow/internal/logging"
	"adflow/internal/production"
	"adflow/internal/services"
	"adflow/internal/store"
)

// TaskService owns task CRUD and the status transition rules.
type TaskService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTaskService constructs a TaskService.
func NewTaskService(st *store.Store, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &TaskService{store: st, logger: logging.WithComponent(logger, "task-service")}
}

// CreateTaskRequest carries the fields accepted when creating a task.
type CreateTaskRequest struct {
	Type          string
	ScriptID      string
	AssigneeID    string
	EstimatedTime float64
	DueDate       *time.Time
	ScheduledFor  *time.Time
	Notes         string
}

// Create validates the script and assignee, then inserts a QUEUED task.
func (s *TaskService) Create(ctx context.Context, req CreateTaskRequest) (*store.Task, error) {
	taskType, ok := store.ParseTaskType(req.Type)
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "task", "create",
			fmt.Sprintf("unknown task type %q", req.Type), nil)
	}
	if req.ScriptID == "" {
		return nil, services.Wrap(services.ErrValidation, "task", "create", "scriptId is required", nil)
	}
	if req.EstimatedTime < 0 {
		return nil, services.Wrap(services.ErrValidation, "task", "create", "estimated time cannot be negative", nil)
	}
	if _, err := s.store.GetScript(ctx, req.ScriptID); err != nil {
		return nil, storeError("script", "lookup", err)
	}
	if req.AssigneeID != "" {
		if _, err := s.store.GetTeamMember(ctx, req.AssigneeID); err != nil {
			return nil, storeError("team member", "lookup", err)
		}
	}

	task := &store.Task{
		Type:          taskType,
		Status:        store.TaskStatusQueued,
		ScriptID:      req.ScriptID,
		AssigneeID:    req.AssigneeID,
		EstimatedTime: req.EstimatedTime,
		DueDate:       req.DueDate,
		ScheduledFor:  req.ScheduledFor,
		Notes:         req.Notes,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, storeError("task", "create", err)
	}
	s.logger.Info("task created",
		logging.String("task_id", task.ID),
		logging.String("script_id", task.ScriptID),
		logging.String("type", string(task.Type)))
	return task, nil
}

// Get fetches a single task.
func (s *TaskService) Get(ctx context.Context, id string) (*store.Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, storeError("task", "get", err)
	}
	return task, nil
}

// ListTasksRequest filters the task list; empty fields match everything.
type ListTasksRequest struct {
	Status     string
	Type       string
	AssigneeID string
	ScriptID   string
}

// List returns tasks matching the filter, each annotated with whether its
// stage is unblocked within its script's pipeline.
func (s *TaskService) List(ctx context.Context, req ListTasksRequest) ([]TaskView, error) {
	filter := store.TaskFilter{
		AssigneeID: req.AssigneeID,
		ScriptID:   req.ScriptID,
	}
	if req.Status != "" {
		status, ok := store.ParseTaskStatus(req.Status)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "task", "list",
				fmt.Sprintf("unknown status %q", req.Status), nil)
		}
		filter.Status = status
	}
	if req.Type != "" {
		taskType, ok := store.ParseTaskType(req.Type)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "task", "list",
				fmt.Sprintf("unknown task type %q", req.Type), nil)
		}
		filter.Type = taskType
	}

	tasks, err := s.store.ListTasks(ctx, filter)
	if err != nil {
		return nil, storeError("task", "list", err)
	}

	// Stage derivation needs the full sibling set per script, not just the
	// filtered rows.
	siblings := make(map[string][]*store.Task)
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		set, ok := siblings[task.ScriptID]
		if !ok {
			set, err = s.store.TasksForScript(ctx, task.ScriptID)
			if err != nil {
				return nil, storeError("task", "list siblings", err)
			}
			siblings[task.ScriptID] = set
		}
		views = append(views, TaskView{
			Task:           task,
			StageUnblocked: production.IsStageUnblocked(set, task.Type),
		})
	}
	return views, nil
}

// TasksForScript returns every task on a script in creation order.
func (s *TaskService) TasksForScript(ctx context.Context, scriptID string) ([]*store.Task, error) {
	tasks, err := s.store.TasksForScript(ctx, scriptID)
	if err != nil {
		return nil, storeError("task", "list", err)
	}
	return tasks, nil
}

// UpdateTaskRequest carries optional task updates. Nil fields are untouched;
// a non-nil empty AssigneeID clears the assignment.
type UpdateTaskRequest struct {
	Status        *string
	AssigneeID    *string
	EstimatedTime *float64
	ActualTime    *float64
	DueDate       *time.Time
	ScheduledFor  *time.Time
	Notes         *string
	Blockers      *string
}

// Update applies field changes and status transitions. Status moves follow
// the closed transition table; illegal edges are rejected before any write.
func (s *TaskService) Update(ctx context.Context, id string, req UpdateTaskRequest) (*store.Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, storeError("task", "update", err)
	}

	if req.Status != nil {
		status, ok := store.ParseTaskStatus(*req.Status)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "task", "update",
				fmt.Sprintf("unknown status %q", *req.Status), nil)
		}
		if err := production.ApplyTransition(task, status); err != nil {
			return nil, err
		}
	}
	if req.AssigneeID != nil {
		if *req.AssigneeID != "" {
			if _, err := s.store.GetTeamMember(ctx, *req.AssigneeID); err != nil {
				return nil, storeError("team member", "lookup", err)
			}
		}
		task.AssigneeID = *req.AssigneeID
	}
	if req.EstimatedTime != nil {
		if *req.EstimatedTime < 0 {
			return nil, services.Wrap(services.ErrValidation, "task", "update", "estimated time cannot be negative", nil)
		}
		task.EstimatedTime = *req.EstimatedTime
	}
	if req.ActualTime != nil {
		if *req.ActualTime < 0 {
			return nil, services.Wrap(services.ErrValidation, "task", "update", "actual time cannot be negative", nil)
		}
		task.ActualTime = req.ActualTime
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.ScheduledFor != nil {
		task.ScheduledFor = req.ScheduledFor
	}
	if req.Notes != nil {
		task.Notes = *req.Notes
	}
	if req.Blockers != nil {
		task.Blockers = *req.Blockers
	}

	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, storeError("task", "update", err)
	}
	s.logger.Info("task updated",
		logging.String("task_id", task.ID),
		logging.String("status", string(task.Status)))
	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return storeError("task", "delete", err)
	}
	s.logger.Info("task deleted", logging.String("task_id", id))
	return nil
}
