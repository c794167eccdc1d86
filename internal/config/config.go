package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Store contains storefront identity and HTTP bind configuration.
type Store struct {
	Name    string `toml:"name"`
	BaseURL string `toml:"base_url"`
	Bind    string `toml:"bind"`
}

// Paths contains directory configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	MediaDir   string `toml:"media_dir"`
	ArchiveDir string `toml:"archive_dir"`
	LogDir     string `toml:"log_dir"`
}

// Email contains SMTP delivery configuration. When Host is empty or a
// placeholder, the mailer falls back to the local sandbox transport.
type Email struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	From           string `toml:"from"`
	UseTLS         bool   `toml:"use_tls"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	SandboxDir     string `toml:"sandbox_dir"`
}

// Checkout contains payment boundary configuration.
type Checkout struct {
	WebhookSecret    string `toml:"webhook_secret"`
	ToleranceSeconds int    `toml:"tolerance_seconds"`
	SuccessURL       string `toml:"success_url"`
	CancelURL        string `toml:"cancel_url"`
	DevEndpoints     bool   `toml:"dev_endpoints"`
	DevKey           string `toml:"dev_key"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for beatstore.
//
// Configuration sections by subsystem:
//   - Store: storefront name, public base URL, HTTP bind address
//   - Paths: data, media, archive, and log directories
//   - Email: SMTP settings and the sandbox message directory
//   - Checkout: webhook secret and dev invocation settings
//   - Logging: log format and level
type Config struct {
	Store    Store    `toml:"store"`
	Paths    Paths    `toml:"paths"`
	Email    Email    `toml:"email"`
	Checkout Checkout `toml:"checkout"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/beatstore/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("beatstore.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for server operation.
// MediaDir is created best-effort so the server can start while external
// storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ArchiveDir, c.Paths.LogDir, c.Email.SandboxDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.MediaDir) != "" {
		_ = os.MkdirAll(c.Paths.MediaDir, 0o755)
	}
	return nil
}

// MailTimeout returns the configured SMTP client timeout.
func (c *Config) MailTimeout() time.Duration {
	if c.Email.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Email.TimeoutSeconds) * time.Second
}

// SMTPConfigured reports whether a usable SMTP host is configured.
// Placeholder values from freshly generated sample configs count as absent,
// which routes delivery through the sandbox transport instead.
func (c *Config) SMTPConfigured() bool {
	host := strings.ToLower(strings.TrimSpace(c.Email.Host))
	if host == "" || strings.HasSuffix(host, "yourmail.com") {
		return false
	}
	user := strings.ToLower(strings.TrimSpace(c.Email.Username))
	if user == "" || strings.HasSuffix(user, "@yourdomain.com") || strings.HasSuffix(user, "@example.com") {
		return false
	}
	return strings.TrimSpace(c.Email.Password) != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
