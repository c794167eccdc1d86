package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const licenseColumns = "id, name, price, files_json, stream_limit, usage_terms, features_json, created_at"

// SaveLicense inserts or replaces a license tier.
func (s *Store) SaveLicense(ctx context.Context, license *License) error {
	if license == nil {
		return errors.New("license is nil")
	}
	if license.CreatedAt.IsZero() {
		license.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO licenses (`+licenseColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             name = excluded.name, price = excluded.price, files_json = excluded.files_json,
             stream_limit = excluded.stream_limit, usage_terms = excluded.usage_terms,
             features_json = excluded.features_json`,
		license.ID,
		license.Name,
		license.Price,
		marshalCategories(license.FilesIncluded),
		license.StreamLimit,
		nullableString(license.UsageTerms),
		marshalStrings(license.Features),
		formatTime(license.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save license: %w", err)
	}
	return nil
}

// GetLicense fetches a license tier by identifier.
func (s *Store) GetLicense(ctx context.Context, id string) (*License, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE id = ?`, id)
	license, err := scanLicense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get license: %w", err)
	}
	return license, nil
}

// ListLicenses returns all license tiers ordered by price.
func (s *Store) ListLicenses(ctx context.Context) ([]*License, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+licenseColumns+` FROM licenses ORDER BY price`)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()

	var licenses []*License
	for rows.Next() {
		license, err := scanLicense(rows)
		if err != nil {
			return nil, err
		}
		licenses = append(licenses, license)
	}
	return licenses, rows.Err()
}

func scanLicense(scanner interface{ Scan(dest ...any) error }) (*License, error) {
	var (
		id          string
		name        string
		price       float64
		files       sql.NullString
		streamLimit int64
		usageTerms  sql.NullString
		features    sql.NullString
		createdRaw  sql.NullString
	)

	if err := scanner.Scan(&id, &name, &price, &files, &streamLimit, &usageTerms, &features, &createdRaw); err != nil {
		return nil, err
	}

	license := &License{
		ID:            id,
		Name:          name,
		Price:         price,
		FilesIncluded: unmarshalCategories(files.String),
		StreamLimit:   streamLimit,
		UsageTerms:    usageTerms.String,
		Features:      unmarshalStrings(features.String),
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		license.CreatedAt = created
	}
	return license, nil
}
