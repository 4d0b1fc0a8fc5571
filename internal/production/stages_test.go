package production

import (
	"testing"
	"time"

	"adflow/internal/store"
)

func stageTask(taskType store.TaskType, status store.TaskStatus, age time.Duration) *store.Task {
	return &store.Task{
		Type:      taskType,
		Status:    status,
		CreatedAt: time.Now().Add(-age),
	}
}

func TestFirstStageAlwaysUnblocked(t *testing.T) {
	if !IsStageUnblocked(nil, store.TaskTypeFilming) {
		t.Fatal("filming must be unblocked with no siblings")
	}
	tasks := []*store.Task{stageTask(store.TaskTypeFilming, store.TaskStatusQueued, 0)}
	if !IsStageUnblocked(tasks, store.TaskTypeFilming) {
		t.Fatal("filming must be unblocked regardless of siblings")
	}
}

func TestStageBlockedUntilPredecessorCompletes(t *testing.T) {
	tasks := []*store.Task{
		stageTask(store.TaskTypeFilming, store.TaskStatusInProgress, time.Hour),
		stageTask(store.TaskTypeEditing, store.TaskStatusQueued, time.Hour),
	}
	if IsStageUnblocked(tasks, store.TaskTypeEditing) {
		t.Fatal("editing must be blocked while filming is in progress")
	}

	tasks[0].Status = store.TaskStatusCompleted
	if !IsStageUnblocked(tasks, store.TaskTypeEditing) {
		t.Fatal("editing must unblock once filming completes")
	}
}

func TestStageBlockedWhenPredecessorMissing(t *testing.T) {
	tasks := []*store.Task{
		stageTask(store.TaskTypeEditing, store.TaskStatusQueued, time.Hour),
	}
	if IsStageUnblocked(tasks, store.TaskTypeReview) {
		t.Fatal("review must be blocked when its predecessor does not exist")
	}
}

func TestRevisionNeverBlocked(t *testing.T) {
	tasks := []*store.Task{
		stageTask(store.TaskTypeFilming, store.TaskStatusQueued, time.Hour),
		stageTask(store.TaskTypeEditing, store.TaskStatusQueued, time.Hour),
	}
	if !IsStageUnblocked(tasks, store.TaskTypeRevision) {
		t.Fatal("revision sits outside the linear order and is never blocked")
	}
}

func TestMostRecentSiblingWins(t *testing.T) {
	// Duplicate types can only appear in imported data; the newest row decides.
	tasks := []*store.Task{
		stageTask(store.TaskTypeFilming, store.TaskStatusCompleted, 2*time.Hour),
		stageTask(store.TaskTypeFilming, store.TaskStatusInProgress, time.Minute),
		stageTask(store.TaskTypeEditing, store.TaskStatusQueued, time.Hour),
	}
	if IsStageUnblocked(tasks, store.TaskTypeEditing) {
		t.Fatal("editing must follow the most recently created filming task")
	}
}

func TestCurrentStage(t *testing.T) {
	tasks := []*store.Task{
		stageTask(store.TaskTypeFilming, store.TaskStatusCompleted, 3*time.Hour),
		stageTask(store.TaskTypeEditing, store.TaskStatusInProgress, 2*time.Hour),
		stageTask(store.TaskTypeReview, store.TaskStatusQueued, time.Hour),
	}
	stage, ok := CurrentStage(tasks)
	if !ok || stage != store.TaskTypeEditing {
		t.Fatalf("CurrentStage = %v %v, want EDITING", stage, ok)
	}

	for _, task := range tasks {
		task.Status = store.TaskStatusCompleted
	}
	if stage, ok := CurrentStage(tasks); ok {
		t.Fatalf("expected finished pipeline, got %v", stage)
	}

	if _, ok := CurrentStage(nil); ok {
		t.Fatal("expected no current stage without tasks")
	}
}
