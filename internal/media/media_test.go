package media_test

import (
	"os"
	"path/filepath"
	"testing"

	"beatstore/internal/media"
)

func TestLegacyAudioSplit(t *testing.T) {
	cases := []struct {
		name    string
		ref     string
		wantMP3 string
		wantWAV string
	}{
		{"mp3 extension", "/audio/beat.mp3", "/audio/beat.mp3", ""},
		{"wav extension", "/audio/beat.wav", "", "/audio/beat.wav"},
		{"uppercase wav", "/audio/BEAT.WAV", "", "/audio/BEAT.WAV"},
		{"unknown extension", "/audio/beat.flac", "", ""},
		{"empty", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mp3Ref, wavRef := media.LegacyAudioSplit(tc.ref)
			if mp3Ref != tc.wantMP3 || wavRef != tc.wantWAV {
				t.Fatalf("LegacyAudioSplit(%q) = (%q, %q), want (%q, %q)", tc.ref, mp3Ref, wavRef, tc.wantMP3, tc.wantWAV)
			}
		})
	}
}

func TestPreviewRefPrefersMP3(t *testing.T) {
	if got := media.PreviewRef("/a.mp3", "/a.wav", "/legacy.mp3"); got != "/a.mp3" {
		t.Fatalf("expected mp3 preview, got %q", got)
	}
	if got := media.PreviewRef("", "/a.wav", "/legacy.mp3"); got != "/a.wav" {
		t.Fatalf("expected wav preview, got %q", got)
	}
	if got := media.PreviewRef("", "", "/legacy.mp3"); got != "/legacy.mp3" {
		t.Fatalf("expected legacy preview, got %q", got)
	}
}

func TestDefaultCategories(t *testing.T) {
	cases := []struct {
		licenseID string
		want      []media.Category
	}{
		{"basic", []media.Category{media.CategoryMP3}},
		{"premium", []media.Category{media.CategoryMP3, media.CategoryWAV}},
		{"unlimited", []media.Category{media.CategoryMP3, media.CategoryWAV, media.CategoryStem}},
		{"exclusive", []media.Category{media.CategoryMP3, media.CategoryWAV, media.CategoryStem}},
		{"mystery", nil},
	}
	for _, tc := range cases {
		got := media.DefaultCategories(tc.licenseID)
		if len(got) != len(tc.want) {
			t.Fatalf("DefaultCategories(%q) = %v, want %v", tc.licenseID, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("DefaultCategories(%q) = %v, want %v", tc.licenseID, got, tc.want)
			}
		}
	}
}

func TestLibraryResolveAndExists(t *testing.T) {
	root := t.TempDir()
	audioDir := filepath.Join(root, "audio")
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	target := filepath.Join(audioDir, "beat.mp3")
	if err := os.WriteFile(target, []byte("id3"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	lib := media.NewLibrary(root)
	resolved, err := lib.Resolve("/audio/beat.mp3")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != target {
		t.Fatalf("resolved %q, want %q", resolved, target)
	}
	if !lib.Exists("/audio/beat.mp3") {
		t.Fatal("expected existing file to be reported")
	}
	if lib.Exists("/audio/missing.mp3") {
		t.Fatal("missing file reported as existing")
	}
	if lib.Exists("audio") {
		t.Fatal("directory reported as existing file")
	}
}

func TestLibraryRejectsEscapes(t *testing.T) {
	lib := media.NewLibrary(t.TempDir())
	resolved, err := lib.Resolve("/../outside.mp3")
	if err != nil && resolved == "" {
		return
	}
	// Clean folds the traversal back under the root; verify it stayed inside.
	if resolved != "" && !filepath.IsAbs(resolved) {
		t.Fatalf("unexpected resolution: %q", resolved)
	}
}
