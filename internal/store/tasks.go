package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrTasksExist is returned when task generation finds the script already has
// tasks. Callers treat this as a conflict, not a failure.
var ErrTasksExist = errors.New("tasks already exist for script")

const taskColumns = `id, type, status, script_id, assignee_id, estimated_time,
	actual_time, due_date, scheduled_for, notes, blockers, completed_at,
	created_at, updated_at`

func scanTask(scanner interface{ Scan(...any) error }) (*Task, error) {
	var (
		task         Task
		assigneeID   sql.NullString
		actualTime   sql.NullFloat64
		dueDate      sql.NullString
		scheduledFor sql.NullString
		completedAt  sql.NullString
		createdAt    sql.NullString
		updatedAt    sql.NullString
	)
	if err := scanner.Scan(
		&task.ID,
		&task.Type,
		&task.Status,
		&task.ScriptID,
		&assigneeID,
		&task.EstimatedTime,
		&actualTime,
		&dueDate,
		&scheduledFor,
		&task.Notes,
		&task.Blockers,
		&completedAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	task.AssigneeID = assigneeID.String
	task.ActualTime = floatPtrFromNull(actualTime)
	task.DueDate = timePtrFromNull(dueDate)
	task.ScheduledFor = timePtrFromNull(scheduledFor)
	task.CompletedAt = timePtrFromNull(completedAt)
	task.CreatedAt = timeFromNull(createdAt)
	task.UpdatedAt = timeFromNull(updatedAt)
	return &task, nil
}

// CreateTask inserts a single task.
func (s *Store) CreateTask(ctx context.Context, task *Task) error {
	ctx = ensureContext(ctx)
	prepareTaskForInsert(task)

	_, err := s.execWithRetry(ctx, `
		INSERT INTO tasks (id, type, status, script_id, assignee_id, estimated_time,
			actual_time, due_date, scheduled_for, notes, blockers, completed_at,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		taskInsertArgs(task)...,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("insert task: %w: %w", ErrConstraint, err)
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func prepareTaskForInsert(task *Task) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = TaskStatusQueued
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
}

func taskInsertArgs(task *Task) []any {
	return []any{
		task.ID,
		string(task.Type),
		string(task.Status),
		task.ScriptID,
		nullableString(task.AssigneeID),
		task.EstimatedTime,
		nullableFloat(task.ActualTime),
		nullableTime(task.DueDate),
		nullableTime(task.ScheduledFor),
		task.Notes,
		task.Blockers,
		nullableTime(task.CompletedAt),
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	}
}

// GetTask fetches a task by id.
func (s *Store) GetTask(ctx context.Context, id string) (*Task, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// TaskFilter narrows ListTasks. Zero values mean "any".
type TaskFilter struct {
	Status     TaskStatus
	Type       TaskType
	AssigneeID string
	ScriptID   string
}

// ListTasks returns tasks matching the filter, newest first.
func (s *Store) ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error) {
	ctx = ensureContext(ctx)
	var (
		conditions []string
		args       []any
	)
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.AssigneeID != "" {
		conditions = append(conditions, "assignee_id = ?")
		args = append(args, filter.AssigneeID)
	}
	if filter.ScriptID != "" {
		conditions = append(conditions, "script_id = ?")
		args = append(args, filter.ScriptID)
	}
	query := "SELECT " + taskColumns + " FROM tasks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// TasksForScript returns every task attached to the script, oldest first so
// stage derivation sees generation order.
func (s *Store) TasksForScript(ctx context.Context, scriptID string) ([]*Task, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE script_id = ? ORDER BY created_at ASC", scriptID)
	if err != nil {
		return nil, fmt.Errorf("list script tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateTask persists the full task row.
func (s *Store) UpdateTask(ctx context.Context, task *Task) error {
	ctx = ensureContext(ctx)
	task.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(ctx, `
		UPDATE tasks
		SET type = ?, status = ?, assignee_id = ?, estimated_time = ?, actual_time = ?,
			due_date = ?, scheduled_for = ?, notes = ?, blockers = ?, completed_at = ?,
			updated_at = ?
		WHERE id = ?`,
		string(task.Type),
		string(task.Status),
		nullableString(task.AssigneeID),
		task.EstimatedTime,
		nullableFloat(task.ActualTime),
		nullableTime(task.DueDate),
		nullableTime(task.ScheduledFor),
		task.Notes,
		task.Blockers,
		nullableTime(task.CompletedAt),
		formatTime(task.UpdatedAt),
		task.ID,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("update task: %w: %w", ErrConstraint, err)
		}
		return fmt.Errorf("update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", task.ID, ErrNotFound)
	}
	return nil
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreateTaskSet inserts a batch of generated tasks for a script and flips the
// script to IN_PRODUCTION in one transaction. The existing-tasks guard runs
// inside the same transaction, so concurrent approvals cannot both insert;
// the UNIQUE(script_id, type) index backstops the guard.
func (s *Store) CreateTaskSet(ctx context.Context, scriptID string, tasks []*Task) error {
	ctx = ensureContext(ctx)
	if len(tasks) == 0 {
		return errors.New("create task set: no tasks supplied")
	}

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin task set tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var count int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM tasks WHERE script_id = ?", scriptID).Scan(&count); err != nil {
			return fmt.Errorf("count existing tasks: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("script %s: %w", scriptID, ErrTasksExist)
		}

		for _, task := range tasks {
			task.ScriptID = scriptID
			prepareTaskForInsert(task)
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tasks (id, type, status, script_id, assignee_id, estimated_time,
					actual_time, due_date, scheduled_for, notes, blockers, completed_at,
					created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				taskInsertArgs(task)...,
			); err != nil {
				if isConstraintViolation(err) {
					return fmt.Errorf("insert generated task: %w: %w", ErrConstraint, err)
				}
				return fmt.Errorf("insert generated task: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx,
			"UPDATE scripts SET status = ?, updated_at = ? WHERE id = ?",
			string(ScriptStatusInProduction), formatTime(time.Now().UTC()), scriptID)
		if err != nil {
			return fmt.Errorf("mark script in production: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("mark script in production: rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("script %s: %w", scriptID, ErrNotFound)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit task set: %w", err)
		}
		return nil
	})
}

// AssignedHours sums estimated time across a member's non-completed tasks.
func (s *Store) AssignedHours(ctx context.Context, memberID string) (float64, error) {
	ctx = ensureContext(ctx)
	var hours sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT SUM(estimated_time) FROM tasks
		WHERE assignee_id = ? AND status != ?`,
		memberID, string(TaskStatusCompleted)).Scan(&hours)
	if err != nil {
		return 0, fmt.Errorf("sum assigned hours: %w", err)
	}
	return hours.Float64, nil
}
