package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beatstore/internal/testsupport"
)

func TestNewTransportSelectsSMTPWhenConfigured(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSMTP("smtp.example.net", 2525))

	transport, err := NewTransport(cfg, nil)
	require.NoError(t, err)

	smtp, ok := transport.(*smtpTransport)
	require.True(t, ok, "expected the SMTP transport for a configured host, got %T", transport)
	assert.NotEmpty(t, smtp.from)
}

func TestBuildMessageRejectsEmptyFrom(t *testing.T) {
	_, err := buildMessage("", &Message{To: "buyer@example.com", Subject: "delivery", Body: "body"})
	assert.Error(t, err)
}
