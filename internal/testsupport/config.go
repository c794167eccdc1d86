package testsupport

import (
	"path/filepath"
	"testing"

	"beatstore/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Store.Name = "Test Beats"
	cfgVal.Store.BaseURL = "http://localhost:4242"
	cfgVal.Store.Bind = "127.0.0.1:0"
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.MediaDir = filepath.Join(base, "media")
	cfgVal.Paths.ArchiveDir = filepath.Join(base, "archives")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Email.SandboxDir = filepath.Join(base, "outbox")
	cfgVal.Checkout.WebhookSecret = "whsec_test"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStoreName overrides the storefront display name.
func WithStoreName(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Name = name
	}
}

// WithBaseURL overrides the public base URL used in download links.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.BaseURL = url
	}
}

// WithWebhookSecret overrides the checkout signing secret.
func WithWebhookSecret(secret string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Checkout.WebhookSecret = secret
	}
}

// WithSMTP fills in a concrete SMTP host so the config selects the network
// transport instead of the sandbox.
func WithSMTP(host string, port int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Email.Host = host
		b.cfg.Email.Port = port
		b.cfg.Email.Username = "mailer@test.local"
		b.cfg.Email.Password = "secret"
	}
}
