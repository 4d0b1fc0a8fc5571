package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const scriptColumns = `id, concept_id, version, content, duration, aspect_ratios,
	text_overlays, status, approved_at, parent_id, created_at, updated_at`

func scanScript(scanner interface{ Scan(...any) error }) (*Script, error) {
	var (
		script     Script
		approvedAt sql.NullString
		parentID   sql.NullString
		createdAt  sql.NullString
		updatedAt  sql.NullString
	)
	if err := scanner.Scan(
		&script.ID,
		&script.ConceptID,
		&script.Version,
		&script.Content,
		&script.Duration,
		&script.AspectRatios,
		&script.TextOverlays,
		&script.Status,
		&approvedAt,
		&parentID,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	script.ApprovedAt = timePtrFromNull(approvedAt)
	script.ParentID = parentID.String
	script.CreatedAt = timeFromNull(createdAt)
	script.UpdatedAt = timeFromNull(updatedAt)
	return &script, nil
}

// CreateScript inserts a new script at version 1.
func (s *Store) CreateScript(ctx context.Context, script *Script) error {
	ctx = ensureContext(ctx)
	if script.ID == "" {
		script.ID = uuid.NewString()
	}
	if script.Version <= 0 {
		script.Version = 1
	}
	if script.Status == "" {
		script.Status = ScriptStatusDraft
	}
	if script.Content == "" {
		script.Content = "{}"
	}
	if script.AspectRatios == "" {
		script.AspectRatios = "[]"
	}
	if script.TextOverlays == "" {
		script.TextOverlays = "[]"
	}
	now := time.Now().UTC()
	script.CreatedAt = now
	script.UpdatedAt = now

	_, err := s.execWithRetry(ctx, `
		INSERT INTO scripts (id, concept_id, version, content, duration, aspect_ratios,
			text_overlays, status, approved_at, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		script.ID,
		script.ConceptID,
		script.Version,
		script.Content,
		script.Duration,
		script.AspectRatios,
		script.TextOverlays,
		string(script.Status),
		nullableTime(script.ApprovedAt),
		nullableString(script.ParentID),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("insert script: %w: %w", ErrConstraint, err)
		}
		return fmt.Errorf("insert script: %w", err)
	}
	return nil
}

// GetScript fetches a script by id.
func (s *Store) GetScript(ctx context.Context, id string) (*Script, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+scriptColumns+" FROM scripts WHERE id = ?", id)
	script, err := scanScript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("script %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get script: %w", err)
	}
	return script, nil
}

// ListScripts returns all scripts, newest first. When conceptID is non-empty
// the list is restricted to that concept's versions.
func (s *Store) ListScripts(ctx context.Context, conceptID string) ([]*Script, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + scriptColumns + " FROM scripts"
	args := []any{}
	if conceptID != "" {
		query += " WHERE concept_id = ?"
		args = append(args, conceptID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	defer rows.Close()

	var scripts []*Script
	for rows.Next() {
		script, err := scanScript(rows)
		if err != nil {
			return nil, fmt.Errorf("scan script: %w", err)
		}
		scripts = append(scripts, script)
	}
	return scripts, rows.Err()
}

// UpdateScript persists mutable script fields. Content immutability across
// versions is enforced at the service layer; the store writes what it is told.
func (s *Store) UpdateScript(ctx context.Context, script *Script) error {
	ctx = ensureContext(ctx)
	script.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(ctx, `
		UPDATE scripts
		SET content = ?, duration = ?, aspect_ratios = ?, text_overlays = ?,
			status = ?, approved_at = ?, updated_at = ?
		WHERE id = ?`,
		script.Content,
		script.Duration,
		script.AspectRatios,
		script.TextOverlays,
		string(script.Status),
		nullableTime(script.ApprovedAt),
		formatTime(script.UpdatedAt),
		script.ID,
	)
	if err != nil {
		return fmt.Errorf("update script: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update script: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("script %s: %w", script.ID, ErrNotFound)
	}
	return nil
}

// DeleteScript removes a script; tasks and the production requirement cascade.
func (s *Store) DeleteScript(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx, "DELETE FROM scripts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete script: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete script: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("script %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreateVersion inserts a new DRAFT version of an existing script with the
// supplied content, linking it to its parent. The parent row is left intact.
func (s *Store) CreateVersion(ctx context.Context, parentID, content string, duration int, aspectRatios, textOverlays string) (*Script, error) {
	ctx = ensureContext(ctx)
	parent, err := s.GetScript(ctx, parentID)
	if err != nil {
		return nil, err
	}
	next := &Script{
		ID:           uuid.NewString(),
		ConceptID:    parent.ConceptID,
		Version:      parent.Version + 1,
		Content:      content,
		Duration:     duration,
		AspectRatios: aspectRatios,
		TextOverlays: textOverlays,
		Status:       ScriptStatusDraft,
		ParentID:     parent.ID,
	}
	if next.Content == "" {
		next.Content = parent.Content
	}
	if next.Duration == 0 {
		next.Duration = parent.Duration
	}
	if next.AspectRatios == "" {
		next.AspectRatios = parent.AspectRatios
	}
	if next.TextOverlays == "" {
		next.TextOverlays = parent.TextOverlays
	}
	if err := s.CreateScript(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// ScriptVersions returns the version chain containing the given script,
// ordered oldest to newest.
func (s *Store) ScriptVersions(ctx context.Context, id string) ([]*Script, error) {
	ctx = ensureContext(ctx)
	script, err := s.GetScript(ctx, id)
	if err != nil {
		return nil, err
	}
	// Walk back to the root, then collect forward over the concept's rows.
	root := script
	for root.ParentID != "" {
		parent, err := s.GetScript(ctx, root.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				break
			}
			return nil, err
		}
		root = parent
	}

	siblings, err := s.ListScripts(ctx, script.ConceptID)
	if err != nil {
		return nil, err
	}
	byParent := make(map[string]*Script, len(siblings))
	for _, sibling := range siblings {
		if sibling.ParentID != "" {
			byParent[sibling.ParentID] = sibling
		}
	}

	chain := []*Script{root}
	for current := root; ; {
		next, ok := byParent[current.ID]
		if !ok {
			break
		}
		chain = append(chain, next)
		current = next
	}
	return chain, nil
}

// HasTasks reports whether any tasks exist for the script.
func (s *Store) HasTasks(ctx context.Context, scriptID string) (bool, error) {
	ctx = ensureContext(ctx)
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM tasks WHERE script_id = ?", scriptID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count tasks: %w", err)
	}
	return count > 0, nil
}

// CreateRequirement inserts the production requirement for a script.
// Requirements are read-only after creation; a second insert for the same
// script fails the unique constraint.
func (s *Store) CreateRequirement(ctx context.Context, req *ProductionRequirement) error {
	ctx = ensureContext(ctx)
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.PropsRequired == "" {
		req.PropsRequired = "[]"
	}
	if req.Deliverables == "" {
		req.Deliverables = "{}"
	}
	req.CreatedAt = time.Now().UTC()

	_, err := s.execWithRetry(ctx, `
		INSERT INTO production_requirements (id, script_id, location_type, talent_needed,
			props_required, product_samples, sample_quantity, equipment_notes, audio_type,
			style_reference, transitions, color_grade, music_style, deliverables, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID,
		req.ScriptID,
		req.LocationType,
		req.TalentNeeded,
		req.PropsRequired,
		boolToInt(req.ProductSamples),
		nullableInt(req.SampleQuantity),
		req.EquipmentNotes,
		req.AudioType,
		req.StyleReference,
		req.Transitions,
		req.ColorGrade,
		req.MusicStyle,
		req.Deliverables,
		formatTime(req.CreatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("insert requirement: %w: %w", ErrConstraint, err)
		}
		return fmt.Errorf("insert requirement: %w", err)
	}
	return nil
}

// GetRequirement fetches the production requirement attached to a script.
func (s *Store) GetRequirement(ctx context.Context, scriptID string) (*ProductionRequirement, error) {
	ctx = ensureContext(ctx)
	var (
		req            ProductionRequirement
		productSamples int
		sampleQuantity sql.NullInt64
		createdAt      sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, script_id, location_type, talent_needed, props_required,
			product_samples, sample_quantity, equipment_notes, audio_type,
			style_reference, transitions, color_grade, music_style, deliverables, created_at
		FROM production_requirements WHERE script_id = ?`, scriptID).Scan(
		&req.ID,
		&req.ScriptID,
		&req.LocationType,
		&req.TalentNeeded,
		&req.PropsRequired,
		&productSamples,
		&sampleQuantity,
		&req.EquipmentNotes,
		&req.AudioType,
		&req.StyleReference,
		&req.Transitions,
		&req.ColorGrade,
		&req.MusicStyle,
		&req.Deliverables,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("requirement for script %s: %w", scriptID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get requirement: %w", err)
	}
	req.ProductSamples = productSamples != 0
	req.SampleQuantity = intPtrFromNull(sampleQuantity)
	req.CreatedAt = timeFromNull(createdAt)
	return &req, nil
}
