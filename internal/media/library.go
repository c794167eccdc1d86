package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Library resolves media references like "/audio/trap_wave_001.mp3" to
// files under a single root directory.
type Library struct {
	root string
}

// NewLibrary constructs a Library rooted at dir.
func NewLibrary(dir string) *Library {
	return &Library{root: dir}
}

// Resolve maps a media reference to an absolute path under the library
// root. References escaping the root are rejected.
func (l *Library) Resolve(ref string) (string, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return "", errors.New("empty media reference")
	}
	cleaned := filepath.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	full := filepath.Join(l.root, cleaned)
	rel, err := filepath.Rel(l.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("media reference %q escapes library root", ref)
	}
	return full, nil
}

// Exists reports whether a reference resolves to a readable regular file.
func (l *Library) Exists(ref string) bool {
	full, err := l.Resolve(ref)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
