package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"beatstore/internal/services"
	"beatstore/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Store: s.cfg.Store.Name})
}

func (s *Server) handleBeats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	products, err := s.store.ListProducts(r.Context(), true)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	payload := make([]BeatResponse, 0, len(products))
	for _, product := range products {
		payload = append(payload, BeatResponse{
			ID:         product.ID,
			Title:      product.Title,
			BPM:        product.BPM,
			Key:        product.Key,
			Mood:       product.Mood,
			Tags:       product.Tags,
			PreviewURL: previewURL(s.cfg.Store.BaseURL, product),
			Sales:      product.Sales,
		})
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleLicenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	licenses, err := s.store.ListLicenses(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	payload := make([]LicenseResponse, 0, len(licenses))
	for _, license := range licenses {
		files := make([]string, 0, len(license.FilesIncluded))
		for _, c := range license.FilesIncluded {
			files = append(files, string(c))
		}
		payload = append(payload, LicenseResponse{
			ID:            license.ID,
			Name:          license.Name,
			Price:         license.Price,
			FilesIncluded: files,
			StreamLimit:   license.StreamLimit,
			UsageTerms:    license.UsageTerms,
			Features:      license.Features,
		})
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	productID := strings.TrimSpace(query.Get("product"))
	licenseID := strings.TrimSpace(query.Get("license"))
	if productID == "" || licenseID == "" {
		s.writeError(w, http.StatusBadRequest, "product and license are required")
		return
	}

	quote, err := s.engine.Price(r.Context(), productID, licenseID, query.Get("coupon"))
	if err != nil {
		s.writeQuoteError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, QuoteResponse{
		ProductID:  quote.ProductID,
		LicenseID:  quote.LicenseID,
		ListPrice:  quote.ListPrice,
		Discount:   quote.Discount,
		Total:      quote.Total,
		CouponCode: quote.CouponCode,
	})
}

func (s *Server) writeQuoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "product or license not found")
	case errors.Is(err, services.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, "quote failed")
	}
}

func previewURL(baseURL string, product *store.Product) string {
	if product.PreviewRef == "" {
		return ""
	}
	return fmt.Sprintf("%s/media/%s", strings.TrimRight(baseURL, "/"), strings.TrimPrefix(product.PreviewRef, "/"))
}
