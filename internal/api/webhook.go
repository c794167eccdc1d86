package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"beatstore/internal/checkout"
	"beatstore/internal/fulfillment"
	"beatstore/internal/logging"
	"beatstore/internal/services"
)

const (
	signatureHeader      = "Stripe-Signature"
	completedSessionType = "checkout.session.completed"
	maxWebhookBody       = 1 << 20
)

// completionEvent mirrors the provider's checkout-completion payload shape.
type completionEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID              string `json:"id"`
			AmountTotal     int64  `json:"amount_total"`
			CustomerDetails struct {
				Email string `json:"email"`
			} `json:"customer_details"`
			Metadata struct {
				BeatID    string `json:"beatId"`
				LicenseID string `json:"licenseId"`
				CouponID  string `json:"couponId"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// handleWebhook receives signed completion events from the payment provider.
// Verification failures are rejected so the provider retries; once an event
// is verified the handler always acknowledges, even when the inner pipeline
// run fails, because a provider retry cannot fix a business-logic failure.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	tolerance := time.Duration(s.cfg.Checkout.ToleranceSeconds) * time.Second
	if err := checkout.VerifySignature(body, r.Header.Get(signatureHeader), s.cfg.Checkout.WebhookSecret, tolerance, time.Now()); err != nil {
		s.logger.Warn("webhook signature rejected", logging.Error(err))
		s.writeError(w, http.StatusBadRequest, "signature verification failed")
		return
	}

	var event completionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.logger.Warn("webhook payload unparseable", logging.Error(err))
		s.writeError(w, http.StatusBadRequest, "malformed payload")
		return
	}

	if event.Type != completedSessionType {
		s.writeJSON(w, http.StatusOK, WebhookResponse{Received: true})
		return
	}

	ctx := services.WithRequestID(r.Context(), event.ID)
	session := event.Data.Object
	outcome, err := s.pipeline.Fulfill(ctx, fulfillment.Event{
		EventID:    event.ID,
		ProductID:  session.Metadata.BeatID,
		LicenseID:  session.Metadata.LicenseID,
		BuyerEmail: session.CustomerDetails.Email,
		Amount:     float64(session.AmountTotal) / 100,
	})
	switch {
	case err != nil && services.IsNoOp(err):
		s.logger.Warn("webhook fulfillment skipped", logging.Error(err))
	case err != nil:
		s.logger.Error("webhook fulfillment failed", logging.Error(err))
	case outcome.AlreadyFulfilled:
		s.logger.Info("webhook event already fulfilled",
			logging.String("event_id", event.ID),
			logging.String("sale_id", outcome.SaleID))
	default:
		if session.Metadata.CouponID != "" {
			if err := s.engine.Redeem(ctx, session.Metadata.CouponID); err != nil {
				s.logger.Warn("coupon redemption failed", logging.Error(err))
			}
		}
	}

	s.writeJSON(w, http.StatusOK, WebhookResponse{Received: true})
}
