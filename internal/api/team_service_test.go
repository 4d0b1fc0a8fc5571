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

func TestTeamCreateDuplicateEmailConflicts(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	svc := api.NewTeamService(st, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, api.TeamMemberRequest{Email: "dup@example.com", Name: "First"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.Create(ctx, api.TeamMemberRequest{Email: "DUP@example.com", Name: "Second"})
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestTeamCreateValidation(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	svc := api.NewTeamService(st, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, api.TeamMemberRequest{Email: "not-an-email", Name: "X"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for bad email, got %v", err)
	}
	capacity := 30.0
	if _, err := svc.Create(ctx, api.TeamMemberRequest{Email: "a@b.com", Name: "X", CapacityHours: &capacity}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for capacity > 24, got %v", err)
	}
}

func TestTeamGetIncludesAssignedHours(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	svc := api.NewTeamService(st, nil)
	ctx := context.Background()
	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)
	member := testsupport.SeedTeamMember(t, st, "hours@example.com")

	task := &store.Task{
		Type:          store.TaskTypeFilming,
		ScriptID:      script.ID,
		AssigneeID:    member.ID,
		EstimatedTime: 4,
	}
	if err := st.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	loaded, err := svc.Get(ctx, member.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.AssignedHours != 4 {
		t.Fatalf("expected 4 assigned hours, got %v", loaded.AssignedHours)
	}
	if loaded.CapacityHours != 8 {
		t.Fatalf("expected default capacity 8, got %v", loaded.CapacityHours)
	}
}
