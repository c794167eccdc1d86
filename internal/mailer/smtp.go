package mailer

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/wneessen/go-mail"

	"beatstore/internal/config"
	"beatstore/internal/logging"
	"beatstore/internal/services"
)

type smtpTransport struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

func newSMTPTransport(cfg *config.Config, logger *slog.Logger) (*smtpTransport, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Email.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Email.Username),
		mail.WithPassword(cfg.Email.Password),
		mail.WithTimeout(cfg.MailTimeout()),
	}
	if cfg.Email.UseTLS {
		opts = append(opts, mail.WithSSL())
	}

	client, err := mail.NewClient(cfg.Email.Host, opts...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "mailer", "smtp client", cfg.Email.Host, err)
	}

	return &smtpTransport{
		client: client,
		from:   cfg.Email.From,
		logger: logging.WithComponent(logger, "mailer"),
	}, nil
}

func (t *smtpTransport) Send(ctx context.Context, msg *Message) (*DeliveryInfo, error) {
	m, err := buildMessage(t.from, msg)
	if err != nil {
		return nil, err
	}

	if err := t.client.DialAndSendWithContext(ctx, m); err != nil {
		return nil, services.Wrap(services.ErrDispatch, "mailer", "send", msg.To, err)
	}

	info := &DeliveryInfo{}
	if ids := m.GetGenHeader(mail.HeaderMessageID); len(ids) > 0 {
		info.MessageID = ids[0]
	}
	t.logger.Info("mail sent",
		logging.String("to", msg.To),
		logging.String("subject", msg.Subject),
		logging.String("message_id", info.MessageID))
	return info, nil
}

func buildMessage(from string, msg *Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "mailer", "from address", from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, services.Wrap(services.ErrValidation, "mailer", "to address", msg.To, err)
	}
	m.SetMessageID()
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	for _, att := range msg.Attachments {
		if att.Path != "" {
			m.AttachFile(att.Path, mail.WithFileName(att.Name))
			continue
		}
		if err := m.AttachReader(att.Name, bytes.NewReader(att.Body)); err != nil {
			return nil, services.Wrap(services.ErrDispatch, "mailer", "attach", att.Name, err)
		}
	}
	return m, nil
}
