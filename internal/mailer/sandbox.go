package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"beatstore/internal/config"
	"beatstore/internal/logging"
	"beatstore/internal/services"
)

// sandboxTransport writes each message to the local outbox directory instead
// of dialing a mail server. The preview URL points at the written file so an
// operator can open what the buyer would have received.
type sandboxTransport struct {
	dir    string
	from   string
	logger *slog.Logger
}

func newSandboxTransport(cfg *config.Config, logger *slog.Logger) (*sandboxTransport, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.Email.SandboxDir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "mailer", "sandbox", "sandbox directory not configured", nil)
	}
	if err := os.MkdirAll(cfg.Email.SandboxDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "mailer", "sandbox", "create outbox", err)
	}
	return &sandboxTransport{
		dir:    cfg.Email.SandboxDir,
		from:   cfg.Email.From,
		logger: logging.WithComponent(logger, "mailer"),
	}, nil
}

func (t *sandboxTransport) Send(_ context.Context, msg *Message) (*DeliveryInfo, error) {
	m, err := buildMessage(t.from, msg)
	if err != nil {
		return nil, err
	}

	id := fmt.Sprintf("msg_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	target := filepath.Join(t.dir, id+".eml")
	if err := m.WriteToFile(target); err != nil {
		return nil, services.Wrap(services.ErrDispatch, "mailer", "write sandbox message", target, err)
	}

	info := &DeliveryInfo{
		MessageID:  id,
		PreviewURL: "file://" + target,
		Sandbox:    true,
	}
	t.logger.Info("mail written to sandbox outbox",
		logging.String("to", msg.To),
		logging.String("subject", msg.Subject),
		logging.String("preview", info.PreviewURL))
	return info, nil
}
