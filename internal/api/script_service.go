package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"adflow/internal/logging"
	"adflow/internal/production"
	"adflow/internal/services"
	"adflow/internal/store"
)

// ScriptService owns script lifecycle operations, including the approval
// boundary that generates production tasks.
type ScriptService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewScriptService constructs a ScriptService.
func NewScriptService(st *store.Store, logger *slog.Logger) *ScriptService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ScriptService{store: st, logger: logging.WithComponent(logger, "script-service")}
}

// TaskView decorates a task with its read-time stage derivation.
type TaskView struct {
	Task           *store.Task
	StageUnblocked bool
}

// ScriptDetail bundles a script with its tasks, requirement, and version
// chain for the detail endpoint.
type ScriptDetail struct {
	Script       *store.Script
	Tasks        []TaskView
	Requirement  *store.ProductionRequirement
	Versions     []*store.Script
	CurrentStage store.TaskType
}

// CreateScriptRequest carries the fields accepted when creating a script.
type CreateScriptRequest struct {
	ConceptID    string
	Content      string
	Duration     int
	AspectRatios string
	TextOverlays string
}

// Create inserts a new version-1 DRAFT script for an existing concept.
func (s *ScriptService) Create(ctx context.Context, req CreateScriptRequest) (*store.Script, error) {
	if req.ConceptID == "" {
		return nil, services.Wrap(services.ErrValidation, "script", "create", "conceptId is required", nil)
	}
	if req.Duration <= 0 {
		return nil, services.Wrap(services.ErrValidation, "script", "create", "duration must be positive", nil)
	}
	if _, err := s.store.GetConcept(ctx, req.ConceptID); err != nil {
		return nil, storeError("concept", "lookup", err)
	}

	script := &store.Script{
		ConceptID:    req.ConceptID,
		Content:      req.Content,
		Duration:     req.Duration,
		AspectRatios: req.AspectRatios,
		TextOverlays: req.TextOverlays,
		Status:       store.ScriptStatusDraft,
	}
	if err := s.store.CreateScript(ctx, script); err != nil {
		return nil, storeError("script", "create", err)
	}
	s.logger.Info("script created", logging.String("script_id", script.ID))
	return script, nil
}

// List returns scripts, optionally restricted to a concept.
func (s *ScriptService) List(ctx context.Context, conceptID string) ([]*store.Script, error) {
	scripts, err := s.store.ListScripts(ctx, conceptID)
	if err != nil {
		return nil, storeError("script", "list", err)
	}
	return scripts, nil
}

// Get returns the script with its tasks (stage-annotated), requirement, and
// version chain.
func (s *ScriptService) Get(ctx context.Context, id string) (*ScriptDetail, error) {
	script, err := s.store.GetScript(ctx, id)
	if err != nil {
		return nil, storeError("script", "get", err)
	}
	tasks, err := s.store.TasksForScript(ctx, id)
	if err != nil {
		return nil, storeError("task", "list", err)
	}
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, TaskView{
			Task:           task,
			StageUnblocked: production.IsStageUnblocked(tasks, task.Type),
		})
	}

	detail := &ScriptDetail{Script: script, Tasks: views}
	if stage, ok := production.CurrentStage(tasks); ok {
		detail.CurrentStage = stage
	}

	req, err := s.store.GetRequirement(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, storeError("requirement", "get", err)
	}
	detail.Requirement = req

	versions, err := s.store.ScriptVersions(ctx, id)
	if err != nil {
		return nil, storeError("script", "versions", err)
	}
	detail.Versions = versions
	return detail, nil
}

// UpdateScriptRequest carries optional fields for a script update. Nil fields
// are left untouched.
type UpdateScriptRequest struct {
	Content      *string
	Duration     *int
	AspectRatios *string
	TextOverlays *string
	Status       *string
}

// Update applies content and status changes. Moving into APPROVED from any
// other status stamps approvedAt and, when the script has no tasks yet,
// generates the default production set and flips the script to IN_PRODUCTION
// in the same transaction. Content edits are rejected once a script leaves
// DRAFT or REVISION_REQUESTED; later edits go through CreateVersion.
func (s *ScriptService) Update(ctx context.Context, id string, req UpdateScriptRequest) (*store.Script, error) {
	script, err := s.store.GetScript(ctx, id)
	if err != nil {
		return nil, storeError("script", "update", err)
	}

	contentEdited := req.Content != nil || req.Duration != nil || req.AspectRatios != nil || req.TextOverlays != nil
	if contentEdited && script.Status != store.ScriptStatusDraft && script.Status != store.ScriptStatusRevisionRequested {
		return nil, services.Wrap(services.ErrValidation, "script", "update",
			fmt.Sprintf("content of a %s script is immutable; create a new version", script.Status), nil)
	}
	if req.Content != nil {
		script.Content = *req.Content
	}
	if req.Duration != nil {
		if *req.Duration <= 0 {
			return nil, services.Wrap(services.ErrValidation, "script", "update", "duration must be positive", nil)
		}
		script.Duration = *req.Duration
	}
	if req.AspectRatios != nil {
		script.AspectRatios = *req.AspectRatios
	}
	if req.TextOverlays != nil {
		script.TextOverlays = *req.TextOverlays
	}

	approving := false
	if req.Status != nil {
		status, ok := store.ParseScriptStatus(*req.Status)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "script", "update",
				fmt.Sprintf("unknown status %q", *req.Status), nil)
		}
		if status == store.ScriptStatusApproved && script.Status != store.ScriptStatusApproved {
			approving = true
			now := time.Now().UTC()
			script.ApprovedAt = &now
		}
		script.Status = status
	}

	if err := s.store.UpdateScript(ctx, script); err != nil {
		return nil, storeError("script", "update", err)
	}

	if approving {
		if err := s.generateDefaultTasks(ctx, script); err != nil {
			return nil, err
		}
	}

	reloaded, err := s.store.GetScript(ctx, id)
	if err != nil {
		return nil, storeError("script", "reload", err)
	}
	return reloaded, nil
}

func (s *ScriptService) generateDefaultTasks(ctx context.Context, script *store.Script) error {
	hasTasks, err := s.store.HasTasks(ctx, script.ID)
	if err != nil {
		return storeError("task", "count", err)
	}
	if hasTasks {
		return nil
	}

	req, err := s.store.GetRequirement(ctx, script.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return storeError("requirement", "get", err)
	}

	tasks := production.GenerateTasks(script, req)
	if err := s.store.CreateTaskSet(ctx, script.ID, tasks); err != nil {
		// A concurrent approval won the race; the tasks exist, so the
		// approval still succeeded.
		if errors.Is(err, store.ErrTasksExist) {
			return nil
		}
		return storeError("task", "generate", err)
	}
	s.logger.Info("production tasks generated",
		logging.String("script_id", script.ID),
		logging.Int("count", len(tasks)))
	return nil
}

// Delete removes a script and everything hanging off it.
func (s *ScriptService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteScript(ctx, id); err != nil {
		return storeError("script", "delete", err)
	}
	s.logger.Info("script deleted", logging.String("script_id", id))
	return nil
}

// CreateVersion produces the next DRAFT version of a script. Omitted fields
// carry over from the parent.
func (s *ScriptService) CreateVersion(ctx context.Context, id string, req UpdateScriptRequest) (*store.Script, error) {
	var (
		content      string
		duration     int
		aspectRatios string
		textOverlays string
	)
	if req.Content != nil {
		content = *req.Content
	}
	if req.Duration != nil {
		duration = *req.Duration
	}
	if req.AspectRatios != nil {
		aspectRatios = *req.AspectRatios
	}
	if req.TextOverlays != nil {
		textOverlays = *req.TextOverlays
	}
	next, err := s.store.CreateVersion(ctx, id, content, duration, aspectRatios, textOverlays)
	if err != nil {
		return nil, storeError("script", "create version", err)
	}
	s.logger.Info("script version created",
		logging.String("script_id", next.ID),
		logging.String("parent_id", id),
		logging.Int("version", next.Version))
	return next, nil
}

// CreateRequirement attaches a production requirement to a script. Each
// script takes exactly one; a second attach is a conflict.
func (s *ScriptService) CreateRequirement(ctx context.Context, scriptID string, req *store.ProductionRequirement) (*store.ProductionRequirement, error) {
	if _, err := s.store.GetScript(ctx, scriptID); err != nil {
		return nil, storeError("script", "lookup", err)
	}
	req.ScriptID = scriptID
	if err := s.store.CreateRequirement(ctx, req); err != nil {
		return nil, storeError("requirement", "create", err)
	}
	return req, nil
}

// TaskConfig is one caller-specified task for explicit production setup.
type TaskConfig struct {
	Type          string
	EstimatedTime float64
	AssigneeID    string
	Notes         string
	DueDate       *time.Time
}

// CreateProductionTasks inserts a caller-defined task set for an APPROVED
// script with no existing tasks, validating types and assignees up front.
// The insert and the IN_PRODUCTION flip share one transaction.
func (s *ScriptService) CreateProductionTasks(ctx context.Context, id string, configs []TaskConfig) ([]*store.Task, error) {
	script, err := s.store.GetScript(ctx, id)
	if err != nil {
		return nil, storeError("script", "create tasks", err)
	}
	if script.Status != store.ScriptStatusApproved {
		return nil, services.Wrap(services.ErrValidation, "script", "create tasks",
			fmt.Sprintf("script must be APPROVED, is %s", script.Status), nil)
	}
	hasTasks, err := s.store.HasTasks(ctx, id)
	if err != nil {
		return nil, storeError("task", "count", err)
	}
	if hasTasks {
		return nil, services.Wrap(services.ErrConflict, "script", "create tasks", "tasks already exist", nil)
	}
	if len(configs) == 0 {
		return nil, services.Wrap(services.ErrValidation, "script", "create tasks", "at least one task is required", nil)
	}

	tasks := make([]*store.Task, 0, len(configs))
	for _, cfg := range configs {
		taskType, ok := store.ParseTaskType(cfg.Type)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "script", "create tasks",
				fmt.Sprintf("unknown task type %q", cfg.Type), nil)
		}
		if cfg.EstimatedTime < 0 {
			return nil, services.Wrap(services.ErrValidation, "script", "create tasks", "estimated time cannot be negative", nil)
		}
		if cfg.AssigneeID != "" {
			if _, err := s.store.GetTeamMember(ctx, cfg.AssigneeID); err != nil {
				return nil, storeError("team member", "lookup", err)
			}
		}
		tasks = append(tasks, &store.Task{
			Type:          taskType,
			Status:        store.TaskStatusQueued,
			ScriptID:      id,
			AssigneeID:    cfg.AssigneeID,
			EstimatedTime: cfg.EstimatedTime,
			Notes:         cfg.Notes,
			DueDate:       cfg.DueDate,
		})
	}

	if err := s.store.CreateTaskSet(ctx, id, tasks); err != nil {
		return nil, storeError("task", "create set", err)
	}
	s.logger.Info("custom production tasks created",
		logging.String("script_id", id),
		logging.Int("count", len(tasks)))
	return tasks, nil
}
