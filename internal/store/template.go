// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"blockpress/internal/models"
)

// TemplateStore persists user customizations of block templates. Each row
// is one (type, theme, slug) customization; theme files and plugin
// templates are never stored here.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// templateColumns lists the columns selected in block template queries.
const templateColumns = `id, type, theme, slug, title, description, content, status,
	origin, area, post_types, is_custom, author_id, updated_at`

// scanTemplate scans a block template row into a Template.
func scanTemplate(scanner interface{ Scan(...any) error }) (*models.Template, error) {
	var (
		t         models.Template
		wpID      uuid.UUID
		postTypes string
		authorID  uuid.NullUUID
	)
	err := scanner.Scan(
		&wpID, &t.Type, &t.Theme, &t.Slug, &t.Title, &t.Description, &t.Content, &t.Status,
		&t.Origin, &t.Area, &postTypes, &t.IsCustom, &authorID, &t.Modified,
	)
	if err != nil {
		return nil, err
	}

	t.ID = models.BuildID(t.Theme, t.Slug)
	t.WPID = &wpID
	t.Source = models.SourceCustom
	t.PostTypes = splitPostTypes(postTypes)
	if authorID.Valid {
		t.Author = &authorID.UUID
	}
	return &t, nil
}

// FindBySlug returns the live customization of slug for theme. Returns
// nil if the template was never customized or its customization is in the
// trash.
func (s *TemplateStore) FindBySlug(ctx context.Context, typ models.TemplateType, theme, slug string) (*models.Template, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+templateColumns+`
		FROM block_templates
		WHERE type = $1 AND theme = $2 AND slug = $3 AND status <> 'trash'
	`, typ, theme, slug)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find block template by slug: %w", err)
	}
	return t, nil
}

// FindByWPID retrieves a customization by its row id, trashed or not.
// Returns nil if not found.
func (s *TemplateStore) FindByWPID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM block_templates WHERE id = $1`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find block template by id: %w", err)
	}
	return t, nil
}

// Query returns the non-trashed customizations of typ for theme that match
// q, ordered by slug. Area and WPID are filtered in SQL; slug and post type
// lists are applied in Go.
func (s *TemplateStore) Query(ctx context.Context, typ models.TemplateType, theme string, q models.TemplateQuery) ([]*models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM block_templates
		WHERE type = $1 AND theme = $2 AND status <> 'trash'`
	args := []any{typ, theme}

	if q.Area != "" && typ == models.TemplateTypePart {
		args = append(args, q.Area)
		query += fmt.Sprintf(" AND area = $%d", len(args))
	}
	if q.WPID != uuid.Nil {
		args = append(args, q.WPID)
		query += fmt.Sprintf(" AND id = $%d", len(args))
	}
	query += " ORDER BY slug"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query block templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block template: %w", err)
		}
		if q.Matches(t) {
			templates = append(templates, t)
		}
	}
	return templates, rows.Err()
}

// Create inserts a customization and returns it with its generated id.
func (s *TemplateStore) Create(ctx context.Context, t *models.Template) (*models.Template, error) {
	status := t.Status
	if status == "" {
		status = models.StatusPublish
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO block_templates
			(type, theme, slug, title, description, content, status, origin, area, post_types, is_custom, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+templateColumns,
		t.Type, t.Theme, t.Slug, t.Title, t.Description, t.Content, status,
		t.Origin, t.Area, joinPostTypes(t.PostTypes), t.IsCustom, nullUUID(t.Author),
	)
	created, err := scanTemplate(row)
	if err != nil {
		return nil, fmt.Errorf("create block template: %w", err)
	}
	return created, nil
}

// Update overwrites the editable fields of an existing customization,
// including its slug.
func (s *TemplateStore) Update(ctx context.Context, t *models.Template) error {
	if t.WPID == nil {
		return fmt.Errorf("update block template: missing id")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE block_templates SET
			slug = $1, title = $2, description = $3, content = $4, status = $5,
			area = $6, post_types = $7, author_id = $8, updated_at = NOW()
		WHERE id = $9
	`, t.Slug, t.Title, t.Description, t.Content, t.Status, t.Area,
		joinPostTypes(t.PostTypes), nullUUID(t.Author), *t.WPID)
	if err != nil {
		return fmt.Errorf("update block template: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("block template not found")
	}
	return nil
}

// Trash marks a customization as trashed, which hides it from lookups and
// lets the theme or plugin template show through again.
func (s *TemplateStore) Trash(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE block_templates SET status = 'trash', updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("trash block template: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("block template not found")
	}
	return nil
}

// Delete permanently removes a customization.
func (s *TemplateStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM block_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete block template: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("block template not found")
	}
	return nil
}

// Count returns the total number of stored customizations.
func (s *TemplateStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM block_templates`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count block templates: %w", err)
	}
	return count, nil
}

// Post types are stored as a comma-separated list.
func joinPostTypes(postTypes []string) string {
	return strings.Join(postTypes, ",")
}

func splitPostTypes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
