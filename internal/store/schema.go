package store

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
        id TEXT PRIMARY KEY,
        title TEXT NOT NULL,
        bpm INTEGER NOT NULL DEFAULT 0,
        key_sig TEXT,
        mood TEXT,
        tags_json TEXT,
        status TEXT NOT NULL DEFAULT 'active',
        mp3_ref TEXT,
        wav_ref TEXT,
        stems_json TEXT,
        legacy_audio_ref TEXT,
        cover_ref TEXT,
        sales INTEGER NOT NULL DEFAULT 0,
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS licenses (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        price REAL NOT NULL DEFAULT 0,
        files_json TEXT,
        stream_limit INTEGER NOT NULL DEFAULT -1,
        usage_terms TEXT,
        features_json TEXT,
        created_at TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS templates (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        body TEXT NOT NULL,
        updated_at TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS coupons (
        id TEXT PRIMARY KEY,
        code TEXT NOT NULL,
        kind TEXT NOT NULL,
        value REAL NOT NULL DEFAULT 0,
        uses INTEGER NOT NULL DEFAULT 0,
        use_limit INTEGER NOT NULL DEFAULT 0,
        expires_at TEXT,
        active INTEGER NOT NULL DEFAULT 1,
        created_at TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS sales (
        id TEXT PRIMARY KEY,
        event_id TEXT,
        product_id TEXT NOT NULL,
        product_title TEXT NOT NULL,
        license_id TEXT NOT NULL,
        license_name TEXT NOT NULL,
        customer TEXT NOT NULL,
        amount REAL NOT NULL,
        date TEXT NOT NULL,
        status TEXT NOT NULL,
        delivered_json TEXT,
        urls_json TEXT
    )`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sales_event_id ON sales (event_id) WHERE event_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales (date)`,
	`CREATE INDEX IF NOT EXISTS idx_coupons_code ON coupons (code)`,
}

func (s *Store) applySchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
