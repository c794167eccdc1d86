package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveTemplate inserts or replaces an agreement template.
func (s *Store) SaveTemplate(ctx context.Context, template *Template) error {
	if template == nil {
		return errors.New("template is nil")
	}
	template.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO templates (id, name, body, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             name = excluded.name, body = excluded.body, updated_at = excluded.updated_at`,
		template.ID,
		template.Name,
		template.Body,
		formatTime(template.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

// GetTemplate fetches an agreement template by identifier. Absence is not
// an error; the notification stage degrades to a placeholder document.
func (s *Store) GetTemplate(ctx context.Context, id string) (*Template, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, body, updated_at FROM templates WHERE id = ?`, id)

	var (
		templateID string
		name       string
		body       string
		updatedRaw sql.NullString
	)
	err := row.Scan(&templateID, &name, &body, &updatedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	template := &Template{ID: templateID, Name: name, Body: body}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		template.UpdatedAt = updated
	}
	return template, nil
}
