package production

import (
	"fmt"
	"time"

	"adflow/internal/services"
	"adflow/internal/store"
)

// allowedTransitions is the closed set of legal task status edges. Same-status
// updates are no-ops and never consult this table.
var allowedTransitions = map[store.TaskStatus][]store.TaskStatus{
	store.TaskStatusQueued:     {store.TaskStatusInProgress},
	store.TaskStatusInProgress: {store.TaskStatusCompleted, store.TaskStatusBlocked},
	store.TaskStatusBlocked:    {store.TaskStatusInProgress},
	store.TaskStatusCompleted:  {store.TaskStatusInProgress},
}

// CanTransition reports whether the edge from -> to is legal.
func CanTransition(from, to store.TaskStatus) bool {
	if from == to {
		return true
	}
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// ApplyTransition moves a task to the requested status, stamping CompletedAt
// on entry to COMPLETED and clearing it on exit. Illegal edges are rejected
// as validation errors before anything is modified; same-status requests
// leave the task untouched.
func ApplyTransition(task *store.Task, to store.TaskStatus) error {
	if task.Status == to {
		return nil
	}
	if !CanTransition(task.Status, to) {
		return services.Wrap(services.ErrValidation, "task", "transition",
			fmt.Sprintf("cannot move task from %s to %s", task.Status, to), nil)
	}
	task.Status = to
	if to == store.TaskStatusCompleted {
		now := time.Now().UTC()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	return nil
}
