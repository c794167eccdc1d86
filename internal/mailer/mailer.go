package mailer

import (
	"context"
	"log/slog"

	"beatstore/internal/config"
)

// Attachment is one file or generated document attached to a message.
// Exactly one of Path or Body is set.
type Attachment struct {
	Name string
	Path string
	Body []byte
}

// Message is a single outbound transactional email.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// DeliveryInfo reports where a sent message went. PreviewURL is only set by
// sandbox transports.
type DeliveryInfo struct {
	MessageID  string
	PreviewURL string
	Sandbox    bool
}

// Transport sends messages. Implementations must be safe for concurrent use;
// the pipeline shares one transport across fulfillment runs.
type Transport interface {
	Send(ctx context.Context, msg *Message) (*DeliveryInfo, error)
}

// NewTransport selects the delivery transport for the given configuration.
// Placeholder SMTP settings route through the sandbox so a fresh install
// delivers to the local outbox instead of failing.
func NewTransport(cfg *config.Config, logger *slog.Logger) (Transport, error) {
	if cfg.SMTPConfigured() {
		return newSMTPTransport(cfg, logger)
	}
	return newSandboxTransport(cfg, logger)
}
