package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beatstore/internal/api"
	"beatstore/internal/checkout"
	"beatstore/internal/config"
	"beatstore/internal/fulfillment"
	"beatstore/internal/mailer"
	"beatstore/internal/store"
	"beatstore/internal/testsupport"
)

func newTestServer(t *testing.T, opts ...testsupport.ConfigOption) (*api.Server, *config.Config, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	st := testsupport.MustOpenStore(t, cfg)
	require.NoError(t, st.Seed(context.Background()))

	transport, err := mailer.NewTransport(cfg, nil)
	require.NoError(t, err)

	pipeline := fulfillment.New(cfg, st, transport, nil)
	engine := checkout.NewEngine(st, nil)
	return api.NewServer(cfg, st, pipeline, engine, nil), cfg, st
}

func doJSON(t *testing.T, srv *api.Server, req *http.Request, out any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func signedWebhookRequest(t *testing.T, cfg *config.Config, payload []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", checkout.Sign(payload, cfg.Checkout.WebhookSecret, time.Now()))
	return req
}

func completionPayload(eventID, beatID, licenseID, email string, amountCents int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test",
			"amount_total": %d,
			"customer_details": {"email": %q},
			"metadata": {"beatId": %q, "licenseId": %q}
		}}
	}`, eventID, amountCents, email, beatID, licenseID))
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var health api.HealthResponse
	rec := doJSON(t, srv, httptest.NewRequest(http.MethodGet, "/health", nil), &health)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "Test Beats", health.Store)
}

func TestBeatsListsOnlyActiveProducts(t *testing.T) {
	srv, _, st := newTestServer(t)
	retired := testsupport.NewProduct("retired", "Retired Beat")
	retired.Status = store.StatusInactive
	testsupport.SaveProduct(t, st, retired)

	var beats []api.BeatResponse
	rec := doJSON(t, srv, httptest.NewRequest(http.MethodGet, "/api/beats", nil), &beats)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, beats, 3)
	for _, beat := range beats {
		assert.NotEqual(t, "retired", beat.ID)
		assert.Contains(t, beat.PreviewURL, "http://localhost:4242/media/")
	}
}

func TestLicensesEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var licenses []api.LicenseResponse
	rec := doJSON(t, srv, httptest.NewRequest(http.MethodGet, "/api/licenses", nil), &licenses)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, licenses, 4)
	assert.Equal(t, "basic", licenses[0].ID)
	assert.InDelta(t, 29.99, licenses[0].Price, 0.001)
}

func TestQuoteEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var quote api.QuoteResponse
	rec := doJSON(t, srv, httptest.NewRequest(http.MethodGet, "/api/quote?product=trap_wave_001&license=basic&coupon=LAUNCH10", nil), &quote)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 29.99, quote.ListPrice, 0.001)
	assert.InDelta(t, 3.00, quote.Discount, 0.001)
	assert.InDelta(t, 26.99, quote.Total, 0.001)
	assert.Equal(t, "LAUNCH10", quote.CouponCode)

	rec = doJSON(t, srv, httptest.NewRequest(http.MethodGet, "/api/quote?product=missing&license=basic", nil), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, httptest.NewRequest(http.MethodGet, "/api/quote?product=trap_wave_001&license=basic&coupon=BOGUS", nil), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookFulfillsVerifiedEvent(t *testing.T) {
	srv, cfg, st := newTestServer(t, testsupport.WithWebhookSecret("whsec_hook"))
	product, err := st.GetProduct(context.Background(), "trap_wave_001")
	require.NoError(t, err)
	testsupport.WriteMediaFiles(t, cfg.Paths.MediaDir, product.MP3Ref)

	// Charged 26.99 after an upstream coupon; the ledger keeps the tier price.
	payload := completionPayload("evt_hook_1", "trap_wave_001", "basic", "buyer@example.com", 2699)
	var ack api.WebhookResponse
	rec := doJSON(t, srv, signedWebhookRequest(t, cfg, payload), &ack)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ack.Received)

	sale, err := st.FindSaleByEventID(context.Background(), "evt_hook_1")
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.InDelta(t, 29.99, sale.Amount, 0.001)
	assert.Equal(t, "buyer@example.com", sale.Customer)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	srv, cfg, st := newTestServer(t)

	payload := completionPayload("evt_bad", "trap_wave_001", "basic", "buyer@example.com", 2999)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", checkout.Sign([]byte("other"), cfg.Checkout.WebhookSecret, time.Now()))

	rec := doJSON(t, srv, req, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	sale, err := st.FindSaleByEventID(context.Background(), "evt_bad")
	require.NoError(t, err)
	assert.Nil(t, sale)
}

func TestWebhookReplayStaysSingleEntry(t *testing.T) {
	srv, cfg, st := newTestServer(t)

	payload := completionPayload("evt_replay", "trap_wave_001", "basic", "buyer@example.com", 2999)
	for i := 0; i < 2; i++ {
		var ack api.WebhookResponse
		rec := doJSON(t, srv, signedWebhookRequest(t, cfg, payload), &ack)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, ack.Received)
	}

	sales, err := st.ListSales(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestWebhookAcknowledgesBusinessFailures(t *testing.T) {
	srv, cfg, st := newTestServer(t)

	// Unknown product: verified event, pipeline no-op, still acknowledged.
	payload := completionPayload("evt_noop", "ghost", "basic", "buyer@example.com", 2999)
	var ack api.WebhookResponse
	rec := doJSON(t, srv, signedWebhookRequest(t, cfg, payload), &ack)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ack.Received)

	sales, err := st.ListSales(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	srv, cfg, st := newTestServer(t)

	payload := []byte(`{"id":"evt_other","type":"payment_intent.created","data":{"object":{}}}`)
	var ack api.WebhookResponse
	rec := doJSON(t, srv, signedWebhookRequest(t, cfg, payload), &ack)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ack.Received)

	sales, err := st.ListSales(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestSimulatePurchase(t *testing.T) {
	srv, cfg, st := newTestServer(t)
	product, err := st.GetProduct(context.Background(), "trap_wave_001")
	require.NoError(t, err)
	testsupport.WriteMediaFiles(t, cfg.Paths.MediaDir, product.MP3Ref, product.WAVRef)

	body, _ := json.Marshal(api.SimulateRequest{
		ProductID: "trap_wave_001",
		LicenseID: "premium",
		Email:     "buyer@example.com",
		Coupon:    "FIVEBUCKS",
	})
	req := httptest.NewRequest(http.MethodPost, "/dev/simulate-purchase", bytes.NewReader(body))

	var resp api.SimulateResponse
	rec := doJSON(t, srv, req, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp.SaleID)
	assert.InDelta(t, 54.99, resp.Amount, 0.001)
	assert.Contains(t, resp.Delivered, "license.txt")
	assert.Contains(t, resp.PreviewURL, "file://")

	coupon, err := st.GetCouponByCode(context.Background(), "FIVEBUCKS")
	require.NoError(t, err)
	assert.Equal(t, int64(1), coupon.Uses)
}

func TestSimulateDisabledReturnsNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Checkout.DevEndpoints = false
	st := testsupport.MustOpenStore(t, cfg)
	require.NoError(t, st.Seed(context.Background()))

	transport, err := mailer.NewTransport(cfg, nil)
	require.NoError(t, err)
	srv := api.NewServer(cfg, st, fulfillment.New(cfg, st, transport, nil), checkout.NewEngine(st, nil), nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dev/simulate-purchase", bytes.NewReader([]byte("{}"))))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSimulateRequiresDevKeyWhenConfigured(t *testing.T) {
	srv, cfg, _ := newTestServer(t)
	cfg.Checkout.DevKey = "sekrit"

	req := httptest.NewRequest(http.MethodPost, "/dev/simulate-purchase", bytes.NewReader([]byte(`{"productId":"trap_wave_001","licenseId":"basic","email":"b@example.com"}`)))
	rec := doJSON(t, srv, req, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/dev/simulate-purchase", bytes.NewReader([]byte(`{"productId":"trap_wave_001","licenseId":"basic","email":"b@example.com"}`)))
	req.Header.Set("X-Dev-Key", "sekrit")
	rec = doJSON(t, srv, req, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMediaFilesAreServed(t *testing.T) {
	srv, cfg, _ := newTestServer(t)
	testsupport.WriteMediaFiles(t, cfg.Paths.MediaDir, "trap_wave_001/trap_wave_001.mp3")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/trap_wave_001/trap_wave_001.mp3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotZero(t, rec.Body.Len())
}
