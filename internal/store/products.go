package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const productColumns = "id, title, bpm, key_sig, mood, tags_json, status, mp3_ref, wav_ref, stems_json, legacy_audio_ref, cover_ref, sales, created_at, updated_at"

// SaveProduct inserts or replaces a catalog record. Used by seeding and
// tests; the fulfillment pipeline never writes products except through
// IncrementSaleCount.
func (s *Store) SaveProduct(ctx context.Context, product *Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	if product.Status == "" {
		product.Status = StatusActive
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO products (`+productColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             title = excluded.title, bpm = excluded.bpm, key_sig = excluded.key_sig,
             mood = excluded.mood, tags_json = excluded.tags_json, status = excluded.status,
             mp3_ref = excluded.mp3_ref, wav_ref = excluded.wav_ref, stems_json = excluded.stems_json,
             legacy_audio_ref = excluded.legacy_audio_ref, cover_ref = excluded.cover_ref,
             updated_at = excluded.updated_at`,
		product.ID,
		product.Title,
		product.BPM,
		nullableString(product.Key),
		nullableString(product.Mood),
		marshalStrings(product.Tags),
		product.Status,
		nullableString(product.MP3Ref),
		nullableString(product.WAVRef),
		marshalStrings(product.StemRefs),
		nullableString(product.LegacyAudioRef),
		nullableString(product.CoverRef),
		product.Sales,
		formatTime(product.CreatedAt),
		formatTime(product.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

// GetProduct fetches a product by identifier, normalized for delivery.
func (s *Store) GetProduct(ctx context.Context, id string) (*Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// ListProducts returns catalog records ordered by creation time. When
// activeOnly is set, inactive products are excluded.
func (s *Store) ListProducts(ctx context.Context, activeOnly bool) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at`
	args := []any{}
	if activeOnly {
		query = `SELECT ` + productColumns + ` FROM products WHERE status = ? ORDER BY created_at`
		args = append(args, StatusActive)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// IncrementSaleCount bumps a product's cumulative sale counter by one.
// The counter only grows; a single UPDATE keeps the increment atomic under
// concurrent fulfillment runs.
func (s *Store) IncrementSaleCount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE products SET sales = sales + 1, updated_at = ? WHERE id = ?`,
		formatTime(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("increment sale count: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("increment sale count: product %q not found", id)
	}
	return nil
}

func scanProduct(scanner interface{ Scan(dest ...any) error }) (*Product, error) {
	var (
		id         string
		title      string
		bpm        int
		keySig     sql.NullString
		mood       sql.NullString
		tags       sql.NullString
		status     string
		mp3Ref     sql.NullString
		wavRef     sql.NullString
		stems      sql.NullString
		legacyRef  sql.NullString
		coverRef   sql.NullString
		sales      int64
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&bpm,
		&keySig,
		&mood,
		&tags,
		&status,
		&mp3Ref,
		&wavRef,
		&stems,
		&legacyRef,
		&coverRef,
		&sales,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	product := &Product{
		ID:             id,
		Title:          title,
		BPM:            bpm,
		Key:            keySig.String,
		Mood:           mood.String,
		Tags:           unmarshalStrings(tags.String),
		Status:         status,
		MP3Ref:         mp3Ref.String,
		WAVRef:         wavRef.String,
		StemRefs:       unmarshalStrings(stems.String),
		LegacyAudioRef: legacyRef.String,
		CoverRef:       coverRef.String,
		Sales:          sales,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		product.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		product.UpdatedAt = updated
	}
	product.normalize()
	return product, nil
}
