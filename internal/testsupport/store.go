package testsupport

import (
	"context"
	"testing"
	"time"

	"beatstore/internal/config"
	"beatstore/internal/media"
	"beatstore/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SaveProduct persists a product for tests.
func SaveProduct(t testing.TB, st *store.Store, product *store.Product) *store.Product {
	t.Helper()

	if err := st.SaveProduct(context.Background(), product); err != nil {
		t.Fatalf("store.SaveProduct: %v", err)
	}
	return product
}

// SaveLicense persists a license tier for tests.
func SaveLicense(t testing.TB, st *store.Store, license *store.License) *store.License {
	t.Helper()

	if err := st.SaveLicense(context.Background(), license); err != nil {
		t.Fatalf("store.SaveLicense: %v", err)
	}
	return license
}

// NewProduct returns a fully populated active product fixture.
func NewProduct(id, title string) *store.Product {
	return &store.Product{
		ID:       id,
		Title:    title,
		BPM:      140,
		Key:      "F minor",
		Mood:     "dark",
		Tags:     []string{"trap"},
		Status:   store.StatusActive,
		MP3Ref:   id + "/" + id + ".mp3",
		WAVRef:   id + "/" + id + ".wav",
		StemRefs: []string{id + "/stems/drums.wav", id + "/stems/melody.wav"},
	}
}

// NewLicense returns a license fixture with explicit file grants.
func NewLicense(id, name string, price float64, files ...media.Category) *store.License {
	return &store.License{
		ID:            id,
		Name:          name,
		Price:         price,
		FilesIncluded: files,
		StreamLimit:   100000,
		UsageTerms:    "Test usage terms.",
		CreatedAt:     time.Now().UTC(),
	}
}
