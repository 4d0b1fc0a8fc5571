package production

import (
	"errors"
	"testing"
	"time"

	"adflow/internal/services"
	"adflow/internal/store"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from    store.TaskStatus
		to      store.TaskStatus
		allowed bool
	}{
		{store.TaskStatusQueued, store.TaskStatusInProgress, true},
		{store.TaskStatusInProgress, store.TaskStatusCompleted, true},
		{store.TaskStatusInProgress, store.TaskStatusBlocked, true},
		{store.TaskStatusBlocked, store.TaskStatusInProgress, true},
		{store.TaskStatusCompleted, store.TaskStatusInProgress, true},
		{store.TaskStatusQueued, store.TaskStatusCompleted, false},
		{store.TaskStatusQueued, store.TaskStatusBlocked, false},
		{store.TaskStatusBlocked, store.TaskStatusCompleted, false},
		{store.TaskStatusBlocked, store.TaskStatusQueued, false},
		{store.TaskStatusCompleted, store.TaskStatusQueued, false},
		{store.TaskStatusCompleted, store.TaskStatusBlocked, false},
		{store.TaskStatusInProgress, store.TaskStatusQueued, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestApplyTransitionStampsCompletedAt(t *testing.T) {
	task := &store.Task{Status: store.TaskStatusInProgress}
	if err := ApplyTransition(task, store.TaskStatusCompleted); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if task.CompletedAt == nil {
		t.Fatal("expected completedAt stamped on completion")
	}
	if time.Since(*task.CompletedAt) > time.Minute {
		t.Fatalf("completedAt not current: %v", task.CompletedAt)
	}

	if err := ApplyTransition(task, store.TaskStatusInProgress); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if task.CompletedAt != nil {
		t.Fatal("expected completedAt cleared on reopen")
	}
}

func TestApplyTransitionRejectsIllegalEdge(t *testing.T) {
	task := &store.Task{Status: store.TaskStatusQueued}
	err := ApplyTransition(task, store.TaskStatusCompleted)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if task.Status != store.TaskStatusQueued || task.CompletedAt != nil {
		t.Fatalf("task mutated on rejected edge: %+v", task)
	}
}

func TestApplyTransitionSameStatusNoop(t *testing.T) {
	stamp := time.Now().UTC().Add(-time.Hour)
	task := &store.Task{Status: store.TaskStatusCompleted, CompletedAt: &stamp}
	if err := ApplyTransition(task, store.TaskStatusCompleted); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(stamp) {
		t.Fatalf("same-status update must not touch completedAt: %v", task.CompletedAt)
	}
}
