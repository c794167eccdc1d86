package checkout

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"beatstore/internal/services"
)

// Sign produces a completion-event signature header for the given payload:
// "t=<unix>,v1=<hex hmac-sha256 of "<unix>.<payload>">". Used by the dev
// simulator and by tests; the payment provider produces the same shape.
func Sign(payload []byte, secret string, now time.Time) string {
	ts := now.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, computeSignature(payload, secret, ts))
}

// VerifySignature checks a signature header against the raw request body.
// The timestamp must fall within tolerance of now to bound replay of
// captured requests. All failures carry the validation marker; the HTTP
// boundary maps them to a provider-visible rejection.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	if strings.TrimSpace(secret) == "" {
		return services.Wrap(services.ErrConfiguration, "checkout", "verify", "webhook secret not configured", nil)
	}

	var ts int64 = -1
	var signature string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return services.Wrap(services.ErrValidation, "checkout", "verify", "malformed timestamp", err)
			}
			ts = parsed
		case "v1":
			signature = value
		}
	}
	if ts < 0 || signature == "" {
		return services.Wrap(services.ErrValidation, "checkout", "verify", "signature header missing t or v1", nil)
	}

	age := now.Unix() - ts
	if age < 0 {
		age = -age
	}
	if tolerance > 0 && age > int64(tolerance.Seconds()) {
		return services.Wrap(services.ErrValidation, "checkout", "verify", "timestamp outside tolerance", nil)
	}

	expected := computeSignature(payload, secret, ts)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return services.Wrap(services.ErrValidation, "checkout", "verify", "signature mismatch", nil)
	}
	return nil
}

func computeSignature(payload []byte, secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
