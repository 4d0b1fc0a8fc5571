package api_test

import (
	"context"
	"errors"
	"testing"

	"adflow/internal/api"
	"adflow/internal/services"
	"adflow/internal/store"
	"adflow/internal/testsupport"
)

func floatPtr(v float64) *float64 { return &v }

func TestTaskCreateValidatesReferences(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	svc := api.NewTaskService(st, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, api.CreateTaskRequest{Type: "PAINTING", ScriptID: "x"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}
	if _, err := svc.Create(ctx, api.CreateTaskRequest{Type: "FILMING", ScriptID: "ghost"}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found for unknown script, got %v", err)
	}

	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)
	if _, err := svc.Create(ctx, api.CreateTaskRequest{Type: "FILMING", ScriptID: script.ID, AssigneeID: "ghost"}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found for unknown assignee, got %v", err)
	}

	task, err := svc.Create(ctx, api.CreateTaskRequest{Type: "filming", ScriptID: script.ID, EstimatedTime: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != store.TaskStatusQueued {
		t.Fatalf("new task should be QUEUED, got %s", task.Status)
	}
}

func TestTaskUpdateTransitions(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	svc := api.NewTaskService(st, nil)
	ctx := context.Background()
	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)

	task, err := svc.Create(ctx, api.CreateTaskRequest{Type: "FILMING", ScriptID: script.ID, EstimatedTime: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// QUEUED -> COMPLETED is illegal.
	if _, err := svc.Update(ctx, task.ID, api.UpdateTaskRequest{Status: strPtr("COMPLETED")}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	updated, err := svc.Update(ctx, task.ID, api.UpdateTaskRequest{Status: strPtr("IN_PROGRESS")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != store.TaskStatusInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", updated.Status)
	}

	updated, err = svc.Update(ctx, task.ID, api.UpdateTaskRequest{
		Status:     strPtr("COMPLETED"),
		ActualTime: floatPtr(2.5),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CompletedAt == nil {
		t.Fatal("expected completedAt stamped")
	}
	if updated.ActualTime == nil || *updated.ActualTime != 2.5 {
		t.Fatalf("actual time not persisted: %+v", updated.ActualTime)
	}

	// Reopening clears the stamp.
	updated, err = svc.Update(ctx, task.ID, api.UpdateTaskRequest{Status: strPtr("IN_PROGRESS")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CompletedAt != nil {
		t.Fatal("expected completedAt cleared on reopen")
	}
}

func TestTaskUpdateAssigneeAndClear(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	svc := api.NewTaskService(st, nil)
	ctx := context.Background()
	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)
	member := testsupport.SeedTeamMember(t, st, "assignee@example.com")

	task, err := svc.Create(ctx, api.CreateTaskRequest{Type: "EDITING", ScriptID: script.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(ctx, task.ID, api.UpdateTaskRequest{AssigneeID: strPtr(member.ID)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.AssigneeID != member.ID {
		t.Fatalf("assignment failed: %q", updated.AssigneeID)
	}

	if _, err := svc.Update(ctx, task.ID, api.UpdateTaskRequest{AssigneeID: strPtr("ghost")}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found for unknown assignee, got %v", err)
	}

	updated, err = svc.Update(ctx, task.ID, api.UpdateTaskRequest{AssigneeID: strPtr("")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.AssigneeID != "" {
		t.Fatalf("expected cleared assignment, got %q", updated.AssigneeID)
	}
}

func TestTaskListAnnotatesBlocking(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	taskSvc := api.NewTaskService(st, nil)
	scriptSvc := api.NewScriptService(st, nil)
	ctx := context.Background()
	script := testsupport.SeedScript(t, st, store.ScriptStatusInReview)

	if _, err := scriptSvc.Update(ctx, script.ID, api.UpdateScriptRequest{Status: strPtr("APPROVED")}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	views, err := taskSvc.List(ctx, api.ListTasksRequest{ScriptID: script.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(views))
	}
	for _, view := range views {
		want := view.Task.Type == store.TaskTypeFilming
		if view.StageUnblocked != want {
			t.Fatalf("%s unblocked=%v, want %v", view.Task.Type, view.StageUnblocked, want)
		}
	}

	if _, err := taskSvc.List(ctx, api.ListTasksRequest{Status: "WAITING"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown filter status, got %v", err)
	}
}
