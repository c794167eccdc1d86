package delivery

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// writeArchive bundles the given files into a zip at target. Member names
// are the base file names; when two sources share a base name the later one
// gets its category appended before the extension, then a numeric suffix if
// still taken.
func writeArchive(target string, files []packagedFile) error {
	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	taken := map[string]bool{}
	for _, file := range files {
		name := memberName(taken, file)
		taken[name] = true

		src, err := os.Open(file.Path)
		if err != nil {
			_ = zw.Close()
			return fmt.Errorf("open member %s: %w", file.Path, err)
		}
		w, err := zw.Create(name)
		if err != nil {
			src.Close()
			_ = zw.Close()
			return fmt.Errorf("create member %s: %w", name, err)
		}
		if _, err := io.Copy(w, src); err != nil {
			src.Close()
			_ = zw.Close()
			return fmt.Errorf("write member %s: %w", name, err)
		}
		src.Close()
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

func memberName(taken map[string]bool, file packagedFile) string {
	base := filepath.Base(file.Path)
	if !taken[base] {
		return base
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := fmt.Sprintf("%s_%s%s", stem, file.Category, ext)
	for i := 2; taken[name]; i++ {
		name = fmt.Sprintf("%s_%s_%d%s", stem, file.Category, i, ext)
	}
	return name
}
