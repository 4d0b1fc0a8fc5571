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

const teamMemberColumns = `id, email, name, role, capacity_hours, created_at, updated_at`

func scanTeamMember(scanner interface{ Scan(...any) error }) (*TeamMember, error) {
	var (
		member    TeamMember
		createdAt sql.NullString
		updatedAt sql.NullString
	)
	if err := scanner.Scan(
		&member.ID,
		&member.Email,
		&member.Name,
		&member.Role,
		&member.CapacityHours,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	member.CreatedAt = timeFromNull(createdAt)
	member.UpdatedAt = timeFromNull(updatedAt)
	return &member, nil
}

// CreateTeamMember inserts a member. Emails are unique; duplicates surface
// ErrConstraint.
func (s *Store) CreateTeamMember(ctx context.Context, member *TeamMember) error {
	ctx = ensureContext(ctx)
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	member.Email = strings.ToLower(strings.TrimSpace(member.Email))
	if member.CapacityHours == 0 {
		member.CapacityHours = 8
	}
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	_, err := s.execWithRetry(ctx, `
		INSERT INTO team_members (id, email, name, role, capacity_hours, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		member.ID,
		member.Email,
		member.Name,
		member.Role,
		member.CapacityHours,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("insert team member: %w: %w", ErrConstraint, err)
		}
		return fmt.Errorf("insert team member: %w", err)
	}
	return nil
}

// GetTeamMember fetches a member by id.
func (s *Store) GetTeamMember(ctx context.Context, id string) (*TeamMember, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+teamMemberColumns+" FROM team_members WHERE id = ?", id)
	member, err := scanTeamMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team member %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get team member: %w", err)
	}
	return member, nil
}

// GetTeamMemberByEmail fetches a member by normalized email.
func (s *Store) GetTeamMemberByEmail(ctx context.Context, email string) (*TeamMember, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+teamMemberColumns+" FROM team_members WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)))
	member, err := scanTeamMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team member %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get team member by email: %w", err)
	}
	return member, nil
}

// ListTeamMembers returns all members ordered by name, each with its derived
// assigned-hours total over non-completed tasks.
func (s *Store) ListTeamMembers(ctx context.Context) ([]*TeamMember, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.email, m.name, m.role, m.capacity_hours, m.created_at, m.updated_at,
			COALESCE(SUM(CASE WHEN t.status != ? THEN t.estimated_time END), 0)
		FROM team_members m
		LEFT JOIN tasks t ON t.assignee_id = m.id
		GROUP BY m.id
		ORDER BY m.name ASC`,
		string(TaskStatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	var members []*TeamMember
	for rows.Next() {
		var (
			member    TeamMember
			createdAt sql.NullString
			updatedAt sql.NullString
		)
		if err := rows.Scan(
			&member.ID,
			&member.Email,
			&member.Name,
			&member.Role,
			&member.CapacityHours,
			&createdAt,
			&updatedAt,
			&member.AssignedHours,
		); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		member.CreatedAt = timeFromNull(createdAt)
		member.UpdatedAt = timeFromNull(updatedAt)
		members = append(members, &member)
	}
	return members, rows.Err()
}

// UpdateTeamMember persists mutable member fields.
func (s *Store) UpdateTeamMember(ctx context.Context, member *TeamMember) error {
	ctx = ensureContext(ctx)
	member.Email = strings.ToLower(strings.TrimSpace(member.Email))
	member.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(ctx, `
		UPDATE team_members
		SET email = ?, name = ?, role = ?, capacity_hours = ?, updated_at = ?
		WHERE id = ?`,
		member.Email,
		member.Name,
		member.Role,
		member.CapacityHours,
		formatTime(member.UpdatedAt),
		member.ID,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("update team member: %w: %w", ErrConstraint, err)
		}
		return fmt.Errorf("update team member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update team member: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("team member %s: %w", member.ID, ErrNotFound)
	}
	return nil
}

// DeleteTeamMember removes a member; their tasks become unassigned.
func (s *Store) DeleteTeamMember(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx, "DELETE FROM team_members WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete team member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete team member: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("team member %s: %w", id, ErrNotFound)
	}
	return nil
}
