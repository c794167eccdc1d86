package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"beatstore/internal/fulfillment"
	"beatstore/internal/logging"
	"beatstore/internal/services"
)

// handleSimulate runs the full pipeline for a hand-built event, skipping the
// payment provider entirely. Registered only when dev endpoints are enabled.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if key := strings.TrimSpace(s.cfg.Checkout.DevKey); key != "" && r.Header.Get("X-Dev-Key") != key {
		s.writeError(w, http.StatusUnauthorized, "dev key required")
		return
	}

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.ProductID == "" || req.LicenseID == "" || req.Email == "" {
		s.writeError(w, http.StatusBadRequest, "productId, licenseId and email are required")
		return
	}

	quote, err := s.engine.Price(r.Context(), req.ProductID, req.LicenseID, req.Coupon)
	if err != nil {
		s.writeQuoteError(w, err)
		return
	}

	eventID := fmt.Sprintf("sim_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	ctx := services.WithRequestID(r.Context(), eventID)
	outcome, err := s.pipeline.Fulfill(ctx, fulfillment.Event{
		EventID:    eventID,
		ProductID:  req.ProductID,
		LicenseID:  req.LicenseID,
		BuyerEmail: req.Email,
		Amount:     quote.Total,
	})
	if err != nil {
		if services.IsNoOp(err) || errors.Is(err, services.ErrValidation) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("simulated fulfillment failed", logging.Error(err))
		s.writeError(w, http.StatusBadGateway, "delivery failed")
		return
	}

	if quote.CouponID != "" {
		if err := s.engine.Redeem(ctx, quote.CouponID); err != nil {
			s.logger.Warn("coupon redemption failed", logging.Error(err))
		}
	}

	s.writeJSON(w, http.StatusOK, SimulateResponse{
		SaleID:       outcome.SaleID,
		Amount:       quote.Total,
		Delivered:    outcome.Delivered,
		DownloadURLs: outcome.DownloadURLs,
		Warnings:     outcome.Warnings,
		PreviewURL:   outcome.PreviewURL,
	})
}
