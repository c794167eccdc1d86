package api

// BeatResponse is the public catalog representation of a product.
type BeatResponse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	BPM        int      `json:"bpm"`
	Key        string   `json:"key,omitempty"`
	Mood       string   `json:"mood,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	PreviewURL string   `json:"previewUrl,omitempty"`
	Sales      int64    `json:"sales"`
}

// LicenseResponse is the public representation of a license tier.
type LicenseResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	FilesIncluded []string `json:"filesIncluded,omitempty"`
	StreamLimit   int64    `json:"streamLimit"`
	UsageTerms    string   `json:"usageTerms,omitempty"`
	Features      []string `json:"features,omitempty"`
}

// QuoteResponse prices a cart line.
type QuoteResponse struct {
	ProductID  string  `json:"productId"`
	LicenseID  string  `json:"licenseId"`
	ListPrice  float64 `json:"listPrice"`
	Discount   float64 `json:"discount"`
	Total      float64 `json:"total"`
	CouponCode string  `json:"couponCode,omitempty"`
}

// WebhookResponse acknowledges a provider event. The provider only retries
// on transport-level failure, so this is returned for verified events even
// when the inner pipeline run failed.
type WebhookResponse struct {
	Received bool `json:"received"`
}

// SimulateRequest triggers a fulfillment run without a payment provider.
type SimulateRequest struct {
	ProductID string `json:"productId"`
	LicenseID string `json:"licenseId"`
	Email     string `json:"email"`
	Coupon    string `json:"coupon,omitempty"`
}

// SimulateResponse reports the simulated run.
type SimulateResponse struct {
	SaleID       string   `json:"saleId,omitempty"`
	Amount       float64  `json:"amount"`
	Delivered    []string `json:"delivered"`
	DownloadURLs []string `json:"downloadUrls"`
	Warnings     []string `json:"warnings,omitempty"`
	PreviewURL   string   `json:"previewUrl,omitempty"`
}

// HealthResponse reports process liveness.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
