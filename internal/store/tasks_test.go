package store_test

import (
	"context"
	"errors"
	"testing"

	"adflow/internal/store"
	"adflow/internal/testsupport"
)

func defaultTaskSet(scriptID string) []*store.Task {
	return []*store.Task{
		{Type: store.TaskTypeFilming, ScriptID: scriptID, EstimatedTime: 2},
		{Type: store.TaskTypeEditing, ScriptID: scriptID, EstimatedTime: 2},
		{Type: store.TaskTypeReview, ScriptID: scriptID, EstimatedTime: 1},
		{Type: store.TaskTypeDelivery, ScriptID: scriptID, EstimatedTime: 1},
	}
}

func TestCreateTaskSetFlipsScript(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)

	if err := st.CreateTaskSet(ctx, script.ID, defaultTaskSet(script.ID)); err != nil {
		t.Fatalf("CreateTaskSet: %v", err)
	}

	tasks, err := st.TasksForScript(ctx, script.ID)
	if err != nil {
		t.Fatalf("TasksForScript: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Status != store.TaskStatusQueued {
			t.Fatalf("expected QUEUED, got %s for %s", task.Status, task.Type)
		}
	}

	reloaded, err := st.GetScript(ctx, script.ID)
	if err != nil {
		t.Fatalf("GetScript: %v", err)
	}
	if reloaded.Status != store.ScriptStatusInProduction {
		t.Fatalf("expected IN_PRODUCTION, got %s", reloaded.Status)
	}
}

func TestCreateTaskSetRejectsExistingTasks(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)

	if err := st.CreateTaskSet(ctx, script.ID, defaultTaskSet(script.ID)); err != nil {
		t.Fatalf("CreateTaskSet: %v", err)
	}
	err := st.CreateTaskSet(ctx, script.ID, defaultTaskSet(script.ID))
	if !errors.Is(err, store.ErrTasksExist) {
		t.Fatalf("expected ErrTasksExist, got %v", err)
	}

	tasks, err := st.TasksForScript(ctx, script.ID)
	if err != nil {
		t.Fatalf("TasksForScript: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("second generation must not add tasks, got %d", len(tasks))
	}
}

func TestDuplicateTaskTypeRejected(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)

	first := &store.Task{Type: store.TaskTypeFilming, ScriptID: script.ID, EstimatedTime: 2}
	if err := st.CreateTask(ctx, first); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	second := &store.Task{Type: store.TaskTypeFilming, ScriptID: script.ID, EstimatedTime: 3}
	if err := st.CreateTask(ctx, second); !errors.Is(err, store.ErrConstraint) {
		t.Fatalf("expected ErrConstraint for duplicate type, got %v", err)
	}
}

func TestListTasksFilters(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)
	member := testsupport.SeedTeamMember(t, st, "filming@example.com")

	filming := &store.Task{
		Type:          store.TaskTypeFilming,
		ScriptID:      script.ID,
		AssigneeID:    member.ID,
		EstimatedTime: 2,
	}
	editing := &store.Task{
		Type:          store.TaskTypeEditing,
		Status:        store.TaskStatusInProgress,
		ScriptID:      script.ID,
		EstimatedTime: 4,
	}
	for _, task := range []*store.Task{filming, editing} {
		if err := st.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	byStatus, err := st.ListTasks(ctx, store.TaskFilter{Status: store.TaskStatusInProgress})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].ID != editing.ID {
		t.Fatalf("status filter returned %+v", byStatus)
	}

	byAssignee, err := st.ListTasks(ctx, store.TaskFilter{AssigneeID: member.ID})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(byAssignee) != 1 || byAssignee[0].ID != filming.ID {
		t.Fatalf("assignee filter returned %+v", byAssignee)
	}

	byType, err := st.ListTasks(ctx, store.TaskFilter{Type: store.TaskTypeEditing, ScriptID: script.ID})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(byType) != 1 || byType[0].ID != editing.ID {
		t.Fatalf("type filter returned %+v", byType)
	}
}

func TestAssignedHoursExcludesCompleted(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)
	member := testsupport.SeedTeamMember(t, st, "busy@example.com")

	open := &store.Task{
		Type:          store.TaskTypeFilming,
		ScriptID:      script.ID,
		AssigneeID:    member.ID,
		EstimatedTime: 3,
	}
	done := &store.Task{
		Type:          store.TaskTypeEditing,
		Status:        store.TaskStatusCompleted,
		ScriptID:      script.ID,
		AssigneeID:    member.ID,
		EstimatedTime: 5,
	}
	for _, task := range []*store.Task{open, done} {
		if err := st.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	hours, err := st.AssignedHours(ctx, member.ID)
	if err != nil {
		t.Fatalf("AssignedHours: %v", err)
	}
	if hours != 3 {
		t.Fatalf("expected 3 assigned hours, got %v", hours)
	}

	members, err := st.ListTeamMembers(ctx)
	if err != nil {
		t.Fatalf("ListTeamMembers: %v", err)
	}
	if len(members) != 1 || members[0].AssignedHours != 3 {
		t.Fatalf("list derivation mismatch: %+v", members)
	}
}

func TestDeleteTeamMemberUnassignsTasks(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)
	member := testsupport.SeedTeamMember(t, st, "leaving@example.com")

	task := &store.Task{
		Type:          store.TaskTypeFilming,
		ScriptID:      script.ID,
		AssigneeID:    member.ID,
		EstimatedTime: 2,
	}
	if err := st.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := st.DeleteTeamMember(ctx, member.ID); err != nil {
		t.Fatalf("DeleteTeamMember: %v", err)
	}
	reloaded, err := st.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if reloaded.AssigneeID != "" {
		t.Fatalf("expected unassigned task, got %q", reloaded.AssigneeID)
	}
}
