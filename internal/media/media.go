package media

import (
	"path"
	"strings"
)

// Category identifies a deliverable file class. The wire values match the
// catalog records persisted by earlier releases, so they must not change.
type Category string

const (
	// CategoryMP3 is the compressed audio deliverable.
	CategoryMP3 Category = "mp3"
	// CategoryWAV is the lossless audio deliverable.
	CategoryWAV Category = "wav"
	// CategoryStem is an individual stem track deliverable.
	CategoryStem Category = "stems"
)

// ParseCategory maps a persisted category string to a Category.
func ParseCategory(value string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(value))) {
	case CategoryMP3:
		return CategoryMP3, true
	case CategoryWAV:
		return CategoryWAV, true
	case CategoryStem:
		return CategoryStem, true
	default:
		return "", false
	}
}

// DefaultCategories returns the file categories historically granted by a
// license tier whose record predates the explicit files_included field.
// Unknown tiers grant nothing.
func DefaultCategories(licenseID string) []Category {
	switch strings.ToLower(strings.TrimSpace(licenseID)) {
	case "basic":
		return []Category{CategoryMP3}
	case "premium":
		return []Category{CategoryMP3, CategoryWAV}
	case "unlimited", "exclusive":
		return []Category{CategoryMP3, CategoryWAV, CategoryStem}
	default:
		return nil
	}
}

// LegacyAudioSplit maps a combined legacy audio reference into the mp3 or
// wav slot by extension. References with any other extension map to neither
// slot; they remain preview-only.
func LegacyAudioSplit(ref string) (mp3Ref, wavRef string) {
	switch strings.ToLower(path.Ext(ref)) {
	case ".mp3":
		return ref, ""
	case ".wav":
		return "", ref
	default:
		return "", ""
	}
}

// PreviewRef derives the storefront preview reference, preferring the
// compressed file over the lossless one, with the legacy combined reference
// as the final fallback.
func PreviewRef(mp3Ref, wavRef, legacyRef string) string {
	if mp3Ref != "" {
		return mp3Ref
	}
	if wavRef != "" {
		return wavRef
	}
	return legacyRef
}
