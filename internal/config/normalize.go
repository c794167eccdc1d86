package config

import (
	"path/filepath"
	"strings"
)

// normalize expands and derives path fields after decoding. ArchiveDir and
// SandboxDir default beneath DataDir when not set explicitly.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.MediaDir, err = expandPath(c.Paths.MediaDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	if strings.TrimSpace(c.Paths.ArchiveDir) == "" {
		c.Paths.ArchiveDir = filepath.Join(c.Paths.DataDir, "archives")
	} else if c.Paths.ArchiveDir, err = expandPath(c.Paths.ArchiveDir); err != nil {
		return err
	}

	if strings.TrimSpace(c.Email.SandboxDir) == "" {
		c.Email.SandboxDir = filepath.Join(c.Paths.DataDir, "outbox")
	} else if c.Email.SandboxDir, err = expandPath(c.Email.SandboxDir); err != nil {
		return err
	}

	c.Store.BaseURL = strings.TrimRight(strings.TrimSpace(c.Store.BaseURL), "/")
	return nil
}
