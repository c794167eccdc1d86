package checkout_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beatstore/internal/checkout"
	"beatstore/internal/services"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := checkout.Sign(payload, "whsec_test", now)
	assert.True(t, strings.HasPrefix(header, "t="))
	assert.Contains(t, header, ",v1=")

	err := checkout.VerifySignature(payload, header, "whsec_test", 5*time.Minute, now)
	require.NoError(t, err)
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := checkout.Sign(payload, "whsec_test", now)

	err := checkout.VerifySignature([]byte(`{"id":"evt_2"}`), header, "whsec_test", 5*time.Minute, now)
	assert.ErrorIs(t, err, services.ErrValidation)

	err = checkout.VerifySignature(payload, header, "whsec_other", 5*time.Minute, now)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestVerifySignatureRejectsStaleTimestamps(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	signed := time.Now().Add(-10 * time.Minute)
	header := checkout.Sign(payload, "whsec_test", signed)

	err := checkout.VerifySignature(payload, header, "whsec_test", 5*time.Minute, time.Now())
	assert.ErrorIs(t, err, services.ErrValidation)

	// Inside tolerance the same header verifies.
	err = checkout.VerifySignature(payload, header, "whsec_test", 15*time.Minute, time.Now())
	assert.NoError(t, err)
}

func TestVerifySignatureRejectsMalformedHeaders(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	for _, header := range []string{"", "v1=abc", "t=notanumber,v1=abc", "t=123"} {
		err := checkout.VerifySignature(payload, header, "whsec_test", 5*time.Minute, now)
		assert.Error(t, err, "header %q", header)
	}

	err := checkout.VerifySignature(payload, checkout.Sign(payload, "whsec_test", now), "", 5*time.Minute, now)
	assert.ErrorIs(t, err, services.ErrConfiguration)
}
