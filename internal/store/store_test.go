package store_test

import (
	"context"
	"errors"
	"testing"

	"adflow/internal/store"
	"adflow/internal/testsupport"
)

func TestCreateAndGetScript(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	script := testsupport.SeedScript(t, st, store.ScriptStatusDraft)

	loaded, err := st.GetScript(context.Background(), script.ID)
	if err != nil {
		t.Fatalf("GetScript: %v", err)
	}
	if loaded.Version != 1 {
		t.Fatalf("expected version 1, got %d", loaded.Version)
	}
	if loaded.Status != store.ScriptStatusDraft {
		t.Fatalf("expected DRAFT, got %s", loaded.Status)
	}
	if loaded.Duration != 30 {
		t.Fatalf("expected duration 30, got %d", loaded.Duration)
	}
}

func TestGetScriptMissing(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	_, err := st.GetScript(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateVersionChains(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	original := testsupport.SeedScript(t, st, store.ScriptStatusApproved)

	next, err := st.CreateVersion(ctx, original.ID, `{"hook":"new"}`, 45, "", "")
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	if next.Version != 2 {
		t.Fatalf("expected version 2, got %d", next.Version)
	}
	if next.ParentID != original.ID {
		t.Fatalf("expected parent %s, got %s", original.ID, next.ParentID)
	}
	if next.Status != store.ScriptStatusDraft {
		t.Fatalf("new version should start DRAFT, got %s", next.Status)
	}
	// Aspect ratios carry over when not supplied.
	if next.AspectRatios != original.AspectRatios {
		t.Fatalf("expected inherited aspect ratios, got %q", next.AspectRatios)
	}

	// Original row is untouched.
	reloaded, err := st.GetScript(ctx, original.ID)
	if err != nil {
		t.Fatalf("GetScript: %v", err)
	}
	if reloaded.Status != store.ScriptStatusApproved || reloaded.Version != 1 {
		t.Fatalf("original mutated: %+v", reloaded)
	}

	chain, err := st.ScriptVersions(ctx, next.ID)
	if err != nil {
		t.Fatalf("ScriptVersions: %v", err)
	}
	if len(chain) != 2 || chain[0].ID != original.ID || chain[1].ID != next.ID {
		t.Fatalf("unexpected version chain: %+v", chain)
	}
}

func TestRequirementUniquePerScript(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)

	req := &store.ProductionRequirement{
		ScriptID:     script.ID,
		LocationType: "STUDIO",
		TalentNeeded: "1 presenter",
	}
	if err := st.CreateRequirement(ctx, req); err != nil {
		t.Fatalf("CreateRequirement: %v", err)
	}

	dup := &store.ProductionRequirement{ScriptID: script.ID, LocationType: "OUTDOOR"}
	if err := st.CreateRequirement(ctx, dup); !errors.Is(err, store.ErrConstraint) {
		t.Fatalf("expected ErrConstraint for duplicate requirement, got %v", err)
	}

	loaded, err := st.GetRequirement(ctx, script.ID)
	if err != nil {
		t.Fatalf("GetRequirement: %v", err)
	}
	if loaded.LocationType != "STUDIO" {
		t.Fatalf("expected first requirement kept, got %q", loaded.LocationType)
	}
}

func TestDeleteScriptCascadesTasks(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)

	task := &store.Task{Type: store.TaskTypeFilming, ScriptID: script.ID, EstimatedTime: 2}
	if err := st.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := st.DeleteScript(ctx, script.ID); err != nil {
		t.Fatalf("DeleteScript: %v", err)
	}
	if _, err := st.GetTask(ctx, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected task cascade-deleted, got %v", err)
	}
}

func TestTeamMemberUniqueEmail(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.SeedTeamMember(t, st, "editor@example.com")
	dup := &store.TeamMember{Email: "Editor@Example.com", Name: "Other"}
	if err := st.CreateTeamMember(ctx, dup); !errors.Is(err, store.ErrConstraint) {
		t.Fatalf("expected ErrConstraint for duplicate email, got %v", err)
	}
}

func TestSchemaVersionMismatchRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	st.Close()

	// Reopening the same database succeeds at the current version.
	again, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	again.Close()
}

func TestParseHelpers(t *testing.T) {
	if status, ok := store.ParseScriptStatus(" approved "); !ok || status != store.ScriptStatusApproved {
		t.Fatalf("ParseScriptStatus: %v %v", status, ok)
	}
	if _, ok := store.ParseScriptStatus("SHIPPED"); ok {
		t.Fatal("expected unknown script status to fail")
	}
	if taskType, ok := store.ParseTaskType("filming"); !ok || taskType != store.TaskTypeFilming {
		t.Fatalf("ParseTaskType: %v %v", taskType, ok)
	}
	if status, ok := store.ParseTaskStatus("in_progress"); !ok || status != store.TaskStatusInProgress {
		t.Fatalf("ParseTaskStatus: %v %v", status, ok)
	}
	if got := store.TaskStatusInProgress.Label(); got != "In Progress" {
		t.Fatalf("Label: %q", got)
	}
}
