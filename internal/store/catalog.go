package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Products, ICPs, and concepts share the same CRUD shape; the ideation flow
// writes concepts, the scripts flow reads them.

func (s *Store) CreateProduct(ctx context.Context, product *Product) error {
	ctx = ensureContext(ctx)
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.Features == "" {
		product.Features = "[]"
	}
	if product.USPs == "" {
		product.USPs = "[]"
	}
	if product.ImageURLs == "" {
		product.ImageURLs = "[]"
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := s.execWithRetry(ctx, `
		INSERT INTO products (id, name, description, features, usps, price_point, offers,
			image_urls, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.Name,
		product.Description,
		product.Features,
		product.USPs,
		product.PricePoint,
		product.Offers,
		product.ImageURLs,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*Product, error) {
	ctx = ensureContext(ctx)
	var (
		product   Product
		createdAt sql.NullString
		updatedAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, features, usps, price_point, offers, image_urls,
			created_at, updated_at
		FROM products WHERE id = ?`, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Features,
		&product.USPs,
		&product.PricePoint,
		&product.Offers,
		&product.ImageURLs,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	product.CreatedAt = timeFromNull(createdAt)
	product.UpdatedAt = timeFromNull(updatedAt)
	return &product, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]*Product, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, features, usps, price_point, offers, image_urls,
			created_at, updated_at
		FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		var (
			product   Product
			createdAt sql.NullString
			updatedAt sql.NullString
		)
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Features,
			&product.USPs,
			&product.PricePoint,
			&product.Offers,
			&product.ImageURLs,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		product.CreatedAt = timeFromNull(createdAt)
		product.UpdatedAt = timeFromNull(updatedAt)
		products = append(products, &product)
	}
	return products, rows.Err()
}

func (s *Store) UpdateProduct(ctx context.Context, product *Product) error {
	ctx = ensureContext(ctx)
	product.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(ctx, `
		UPDATE products
		SET name = ?, description = ?, features = ?, usps = ?, price_point = ?,
			offers = ?, image_urls = ?, updated_at = ?
		WHERE id = ?`,
		product.Name,
		product.Description,
		product.Features,
		product.USPs,
		product.PricePoint,
		product.Offers,
		product.ImageURLs,
		formatTime(product.UpdatedAt),
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("product %s: %w", product.ID, ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) CreateICP(ctx context.Context, icp *ICP) error {
	ctx = ensureContext(ctx)
	if icp.ID == "" {
		icp.ID = uuid.NewString()
	}
	if icp.Demographics == "" {
		icp.Demographics = "{}"
	}
	if icp.Psychographics == "" {
		icp.Psychographics = "{}"
	}
	for _, field := range []*string{&icp.PainPoints, &icp.Aspirations, &icp.BuyingTriggers, &icp.Platforms} {
		if *field == "" {
			*field = "[]"
		}
	}
	now := time.Now().UTC()
	icp.CreatedAt = now
	icp.UpdatedAt = now

	_, err := s.execWithRetry(ctx, `
		INSERT INTO icps (id, name, demographics, psychographics, pain_points, aspirations,
			buying_triggers, platforms, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		icp.ID,
		icp.Name,
		icp.Demographics,
		icp.Psychographics,
		icp.PainPoints,
		icp.Aspirations,
		icp.BuyingTriggers,
		icp.Platforms,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("insert icp: %w", err)
	}
	return nil
}

func (s *Store) GetICP(ctx context.Context, id string) (*ICP, error) {
	ctx = ensureContext(ctx)
	var (
		icp       ICP
		createdAt sql.NullString
		updatedAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, demographics, psychographics, pain_points, aspirations,
			buying_triggers, platforms, created_at, updated_at
		FROM icps WHERE id = ?`, id).Scan(
		&icp.ID,
		&icp.Name,
		&icp.Demographics,
		&icp.Psychographics,
		&icp.PainPoints,
		&icp.Aspirations,
		&icp.BuyingTriggers,
		&icp.Platforms,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("icp %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get icp: %w", err)
	}
	icp.CreatedAt = timeFromNull(createdAt)
	icp.UpdatedAt = timeFromNull(updatedAt)
	return &icp, nil
}

func (s *Store) ListICPs(ctx context.Context) ([]*ICP, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, demographics, psychographics, pain_points, aspirations,
			buying_triggers, platforms, created_at, updated_at
		FROM icps ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list icps: %w", err)
	}
	defer rows.Close()

	var icps []*ICP
	for rows.Next() {
		var (
			icp       ICP
			createdAt sql.NullString
			updatedAt sql.NullString
		)
		if err := rows.Scan(
			&icp.ID,
			&icp.Name,
			&icp.Demographics,
			&icp.Psychographics,
			&icp.PainPoints,
			&icp.Aspirations,
			&icp.BuyingTriggers,
			&icp.Platforms,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan icp: %w", err)
		}
		icp.CreatedAt = timeFromNull(createdAt)
		icp.UpdatedAt = timeFromNull(updatedAt)
		icps = append(icps, &icp)
	}
	return icps, rows.Err()
}

func (s *Store) UpdateICP(ctx context.Context, icp *ICP) error {
	ctx = ensureContext(ctx)
	icp.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(ctx, `
		UPDATE icps
		SET name = ?, demographics = ?, psychographics = ?, pain_points = ?,
			aspirations = ?, buying_triggers = ?, platforms = ?, updated_at = ?
		WHERE id = ?`,
		icp.Name,
		icp.Demographics,
		icp.Psychographics,
		icp.PainPoints,
		icp.Aspirations,
		icp.BuyingTriggers,
		icp.Platforms,
		formatTime(icp.UpdatedAt),
		icp.ID,
	)
	if err != nil {
		return fmt.Errorf("update icp: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update icp: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("icp %s: %w", icp.ID, ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteICP(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx, "DELETE FROM icps WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete icp: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete icp: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("icp %s: %w", id, ErrNotFound)
	}
	return nil
}

const conceptColumns = `id, product_id, icp_id, title, hook_type, hook_text, angle,
	format, platform, core_message, rationale, complexity, status, created_at, updated_at`

func scanConcept(scanner interface{ Scan(...any) error }) (*Concept, error) {
	var (
		concept   Concept
		createdAt sql.NullString
		updatedAt sql.NullString
	)
	if err := scanner.Scan(
		&concept.ID,
		&concept.ProductID,
		&concept.ICPID,
		&concept.Title,
		&concept.HookType,
		&concept.HookText,
		&concept.Angle,
		&concept.Format,
		&concept.Platform,
		&concept.CoreMessage,
		&concept.Rationale,
		&concept.Complexity,
		&concept.Status,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	concept.CreatedAt = timeFromNull(createdAt)
	concept.UpdatedAt = timeFromNull(updatedAt)
	return &concept, nil
}

func (s *Store) CreateConcept(ctx context.Context, concept *Concept) error {
	ctx = ensureContext(ctx)
	if concept.ID == "" {
		concept.ID = uuid.NewString()
	}
	if concept.Status == "" {
		concept.Status = ConceptStatusGenerated
	}
	if concept.Complexity == "" {
		concept.Complexity = "MEDIUM"
	}
	now := time.Now().UTC()
	concept.CreatedAt = now
	concept.UpdatedAt = now

	_, err := s.execWithRetry(ctx, `
		INSERT INTO concepts (id, product_id, icp_id, title, hook_type, hook_text, angle,
			format, platform, core_message, rationale, complexity, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		concept.ID,
		concept.ProductID,
		concept.ICPID,
		concept.Title,
		concept.HookType,
		concept.HookText,
		concept.Angle,
		concept.Format,
		concept.Platform,
		concept.CoreMessage,
		concept.Rationale,
		concept.Complexity,
		string(concept.Status),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("insert concept: %w: %w", ErrConstraint, err)
		}
		return fmt.Errorf("insert concept: %w", err)
	}
	return nil
}

func (s *Store) GetConcept(ctx context.Context, id string) (*Concept, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+conceptColumns+" FROM concepts WHERE id = ?", id)
	concept, err := scanConcept(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("concept %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get concept: %w", err)
	}
	return concept, nil
}

// ListConcepts returns concepts newest first, optionally filtered by product.
func (s *Store) ListConcepts(ctx context.Context, productID string) ([]*Concept, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + conceptColumns + " FROM concepts"
	args := []any{}
	if productID != "" {
		query += " WHERE product_id = ?"
		args = append(args, productID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list concepts: %w", err)
	}
	defer rows.Close()

	var concepts []*Concept
	for rows.Next() {
		concept, err := scanConcept(rows)
		if err != nil {
			return nil, fmt.Errorf("scan concept: %w", err)
		}
		concepts = append(concepts, concept)
	}
	return concepts, rows.Err()
}

func (s *Store) UpdateConcept(ctx context.Context, concept *Concept) error {
	ctx = ensureContext(ctx)
	concept.UpdatedAt = time.Now().UTC()
	res, err := s.execWithRetry(ctx, `
		UPDATE concepts
		SET title = ?, hook_type = ?, hook_text = ?, angle = ?, format = ?, platform = ?,
			core_message = ?, rationale = ?, complexity = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		concept.Title,
		concept.HookType,
		concept.HookText,
		concept.Angle,
		concept.Format,
		concept.Platform,
		concept.CoreMessage,
		concept.Rationale,
		concept.Complexity,
		string(concept.Status),
		formatTime(concept.UpdatedAt),
		concept.ID,
	)
	if err != nil {
		return fmt.Errorf("update concept: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update concept: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("concept %s: %w", concept.ID, ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteConcept(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx, "DELETE FROM concepts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete concept: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete concept: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("concept %s: %w", id, ErrNotFound)
	}
	return nil
}
