package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates the target path with roughly size bytes of placeholder
// audio content. A size <= 0 writes a single byte. Parent directories are
// created as needed.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	payload := bytes.Repeat([]byte("beat"), int(size/4)+1)
	if err := os.WriteFile(path, payload[:size], 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteMediaFiles creates the media files referenced by a product under the
// given media root so assembly probes succeed.
func WriteMediaFiles(t testing.TB, mediaDir string, refs ...string) {
	t.Helper()

	for _, ref := range refs {
		WriteFile(t, filepath.Join(mediaDir, filepath.FromSlash(ref)), 64)
	}
}
