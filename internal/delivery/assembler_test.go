package delivery_test

import (
	"archive/zip"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beatstore/internal/delivery"
	"beatstore/internal/entitlement"
	"beatstore/internal/media"
	"beatstore/internal/store"
	"beatstore/internal/testsupport"
)

func newEntitlement(items ...entitlement.Item) *entitlement.Entitlement {
	return &entitlement.Entitlement{
		Product: &store.Product{ID: "trap_wave_001", Title: "Trap Wave 001"},
		License: &store.License{ID: "premium", Name: "Premium Lease"},
		Buyer:   "buyer@example.com",
		Items:   items,
	}
}

func staticDocs(_ []string) (summary, agreement []byte) {
	return []byte("summary"), []byte("agreement")
}

func TestAssembleAttachesIndividuallyBelowThreshold(t *testing.T) {
	base := t.TempDir()
	mediaDir := filepath.Join(base, "media")
	testsupport.WriteMediaFiles(t, mediaDir, "a/a.mp3", "a/a.wav")

	assembler := delivery.NewAssembler(media.NewLibrary(mediaDir), filepath.Join(base, "archives"), nil)
	pkg, err := assembler.Assemble(newEntitlement(
		entitlement.Item{Category: media.CategoryMP3, MediaRef: "a/a.mp3"},
		entitlement.Item{Category: media.CategoryWAV, MediaRef: "a/a.wav"},
	), staticDocs)
	require.NoError(t, err)

	assert.False(t, pkg.Archived)
	require.Len(t, pkg.Attachments, 4)
	assert.Equal(t, "license.txt", pkg.Attachments[0].Name)
	assert.Equal(t, "contract.txt", pkg.Attachments[1].Name)
	assert.Equal(t, "a.mp3", pkg.Attachments[2].Name)
	assert.Equal(t, "a.wav", pkg.Attachments[3].Name)
	assert.Equal(t, []string{"license.txt", "contract.txt", "a.mp3", "a.wav"}, pkg.Delivered)
	assert.Equal(t, []string{"a/a.mp3", "a/a.wav"}, pkg.MediaRefs)
	assert.Empty(t, pkg.Warnings)
}

func TestAssembleBundlesWhenStemsGranted(t *testing.T) {
	base := t.TempDir()
	mediaDir := filepath.Join(base, "media")
	testsupport.WriteMediaFiles(t, mediaDir, "a/a.mp3", "a/stems/drums.wav")

	archiveDir := filepath.Join(base, "archives")
	assembler := delivery.NewAssembler(media.NewLibrary(mediaDir), archiveDir, nil)
	pkg, err := assembler.Assemble(newEntitlement(
		entitlement.Item{Category: media.CategoryMP3, MediaRef: "a/a.mp3"},
		entitlement.Item{Category: media.CategoryStem, MediaRef: "a/stems/drums.wav"},
	), staticDocs)
	require.NoError(t, err)

	assert.True(t, pkg.Archived)
	require.Len(t, pkg.Attachments, 3)
	archive := pkg.Attachments[2]
	assert.Equal(t, "trap_wave_001_premium.zip", archive.Name)

	reader, err := zip.OpenReader(archive.Path)
	require.NoError(t, err)
	defer reader.Close()
	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"a.mp3", "drums.wav"}, names)
}

func TestAssembleBundlesAboveCountThreshold(t *testing.T) {
	base := t.TempDir()
	mediaDir := filepath.Join(base, "media")
	testsupport.WriteMediaFiles(t, mediaDir, "a/one.mp3", "a/two.wav", "a/three.mp3")

	assembler := delivery.NewAssembler(media.NewLibrary(mediaDir), filepath.Join(base, "archives"), nil)
	pkg, err := assembler.Assemble(newEntitlement(
		entitlement.Item{Category: media.CategoryMP3, MediaRef: "a/one.mp3"},
		entitlement.Item{Category: media.CategoryWAV, MediaRef: "a/two.wav"},
		entitlement.Item{Category: media.CategoryMP3, MediaRef: "a/three.mp3"},
	), staticDocs)
	require.NoError(t, err)

	assert.True(t, pkg.Archived)
	require.Len(t, pkg.Attachments, 3)
}

func TestAssembleDropsMissingMediaWithWarning(t *testing.T) {
	base := t.TempDir()
	mediaDir := filepath.Join(base, "media")
	testsupport.WriteMediaFiles(t, mediaDir, "a/a.mp3")

	assembler := delivery.NewAssembler(media.NewLibrary(mediaDir), filepath.Join(base, "archives"), nil)

	var docRefs []string
	pkg, err := assembler.Assemble(newEntitlement(
		entitlement.Item{Category: media.CategoryMP3, MediaRef: "a/a.mp3"},
		entitlement.Item{Category: media.CategoryWAV, MediaRef: "a/missing.wav"},
	), func(refs []string) ([]byte, []byte) {
		docRefs = refs
		return []byte("summary"), []byte("agreement")
	})
	require.NoError(t, err)

	require.Len(t, pkg.Attachments, 3)
	assert.Equal(t, "a.mp3", pkg.Attachments[2].Name)
	require.Len(t, pkg.Warnings, 1)
	assert.Contains(t, pkg.Warnings[0], "a/missing.wav")
	assert.Equal(t, []string{"a/a.mp3"}, docRefs)
}

func TestAssembleEmptySurvivorsStillDeliversDocuments(t *testing.T) {
	base := t.TempDir()
	assembler := delivery.NewAssembler(media.NewLibrary(filepath.Join(base, "media")), filepath.Join(base, "archives"), nil)

	pkg, err := assembler.Assemble(newEntitlement(
		entitlement.Item{Category: media.CategoryMP3, MediaRef: "a/gone.mp3"},
	), staticDocs)
	require.NoError(t, err)

	require.Len(t, pkg.Attachments, 2)
	assert.Equal(t, []string{"license.txt", "contract.txt"}, pkg.Delivered)
	assert.Empty(t, pkg.MediaRefs)
	assert.False(t, pkg.Archived)
	assert.Len(t, pkg.Warnings, 1)
}

func TestAssembleArchiveFailureFallsBackToIndividual(t *testing.T) {
	base := t.TempDir()
	mediaDir := filepath.Join(base, "media")
	testsupport.WriteMediaFiles(t, mediaDir, "a/one.mp3", "a/two.wav", "a/three.mp3")

	// A file standing where the archive directory should be forces the
	// bundling step to fail.
	blocked := filepath.Join(base, "archives")
	testsupport.WriteFile(t, blocked, 1)

	assembler := delivery.NewAssembler(media.NewLibrary(mediaDir), blocked, nil)
	pkg, err := assembler.Assemble(newEntitlement(
		entitlement.Item{Category: media.CategoryMP3, MediaRef: "a/one.mp3"},
		entitlement.Item{Category: media.CategoryWAV, MediaRef: "a/two.wav"},
		entitlement.Item{Category: media.CategoryMP3, MediaRef: "a/three.mp3"},
	), staticDocs)
	require.NoError(t, err)

	assert.False(t, pkg.Archived)
	require.Len(t, pkg.Attachments, 5)
	require.Len(t, pkg.Warnings, 1)
	assert.Contains(t, pkg.Warnings[0], "archive bundling failed")
}

func TestAssembleDisambiguatesDuplicateBaseNames(t *testing.T) {
	base := t.TempDir()
	mediaDir := filepath.Join(base, "media")
	testsupport.WriteMediaFiles(t, mediaDir, "a/beat.mp3", "b/beat.mp3")

	assembler := delivery.NewAssembler(media.NewLibrary(mediaDir), filepath.Join(base, "archives"), nil)
	pkg, err := assembler.Assemble(newEntitlement(
		entitlement.Item{Category: media.CategoryMP3, MediaRef: "a/beat.mp3"},
		entitlement.Item{Category: media.CategoryMP3, MediaRef: "b/beat.mp3"},
	), staticDocs)
	require.NoError(t, err)

	require.Len(t, pkg.Attachments, 4)
	assert.Equal(t, "beat.mp3", pkg.Attachments[2].Name)
	assert.Equal(t, "beat_mp3.mp3", pkg.Attachments[3].Name)
}
