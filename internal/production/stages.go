package production

import (
	"adflow/internal/store"
)

// StageOrder is the fixed linear production sequence. REVISION is a
// side-stage: created manually, never part of the linear order, and never
// blocked by it.
var StageOrder = []store.TaskType{
	store.TaskTypeFilming,
	store.TaskTypeEditing,
	store.TaskTypeReview,
	store.TaskTypeDelivery,
}

func stageIndex(stage store.TaskType) int {
	for i, candidate := range StageOrder {
		if candidate == stage {
			return i
		}
	}
	return -1
}

// latestOfType returns the sibling task of the given type. When several rows
// share a type (possible only in imported data; normal writes are unique per
// type) the most recently created wins.
func latestOfType(tasks []*store.Task, taskType store.TaskType) *store.Task {
	var latest *store.Task
	for _, task := range tasks {
		if task == nil || task.Type != taskType {
			continue
		}
		if latest == nil || task.CreatedAt.After(latest.CreatedAt) {
			latest = task
		}
	}
	return latest
}

// IsStageUnblocked reports whether work on the given stage may begin, derived
// from the script's sibling tasks. The first stage is always unblocked; every
// later stage requires the immediately preceding stage's task to exist and be
// completed. The result is recomputed per view and never stored.
func IsStageUnblocked(tasks []*store.Task, stage store.TaskType) bool {
	idx := stageIndex(stage)
	if idx < 0 {
		// REVISION and unknown types are outside the linear order.
		return true
	}
	if idx == 0 {
		return true
	}
	predecessor := latestOfType(tasks, StageOrder[idx-1])
	return predecessor != nil && predecessor.Status == store.TaskStatusCompleted
}

// CurrentStage returns the first stage in order whose task is not completed,
// and false once every linear stage is done or no linear tasks exist.
func CurrentStage(tasks []*store.Task) (store.TaskType, bool) {
	for _, stage := range StageOrder {
		task := latestOfType(tasks, stage)
		if task == nil {
			continue
		}
		if task.Status != store.TaskStatusCompleted {
			return stage, true
		}
	}
	return "", false
}
