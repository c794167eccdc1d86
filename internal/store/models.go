package store

import (
	"time"

	"beatstore/internal/media"
)

// Product statuses. Only active products are listed on the storefront.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Product is a beat in the catalog. MP3Ref and WAVRef point at the
// deliverable masters; LegacyAudioRef carries the combined audio reference
// from records that predate the split fields and is folded into the typed
// slots at read time. PreviewRef is derived, never persisted directly.
type Product struct {
	ID             string
	Title          string
	BPM            int
	Key            string
	Mood           string
	Tags           []string
	Status         string
	MP3Ref         string
	WAVRef         string
	StemRefs       []string
	LegacyAudioRef string
	CoverRef       string
	PreviewRef     string
	Sales          int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Active reports whether the product is visible on the storefront.
func (p *Product) Active() bool {
	return p != nil && p.Status == StatusActive
}

// normalize folds legacy combined references into the typed slots and
// derives the preview reference. Runs once per read.
func (p *Product) normalize() {
	if p.MP3Ref == "" && p.WAVRef == "" && p.LegacyAudioRef != "" {
		p.MP3Ref, p.WAVRef = media.LegacyAudioSplit(p.LegacyAudioRef)
	}
	p.PreviewRef = media.PreviewRef(p.MP3Ref, p.WAVRef, p.LegacyAudioRef)
}

// UnlimitedStreams is the sentinel stream ceiling meaning no limit.
const UnlimitedStreams int64 = -1

// License is a purchasable license tier.
type License struct {
	ID            string
	Name          string
	Price         float64
	FilesIncluded []media.Category
	StreamLimit   int64
	UsageTerms    string
	Features      []string
	CreatedAt     time.Time
}

// Template is an editable license agreement body. Template ids match
// license tier ids by convention only.
type Template struct {
	ID        string
	Name      string
	Body      string
	UpdatedAt time.Time
}

// Coupon discount kinds.
const (
	CouponPercentage = "percentage"
	CouponFixed      = "fixed"
)

// Coupon is a storefront discount code.
type Coupon struct {
	ID        string
	Code      string
	Kind      string
	Value     float64
	Uses      int64
	UseLimit  int64
	ExpiresAt string
	Active    bool
	CreatedAt time.Time
}

// Sale is an immutable ledger record of a completed purchase. Title and
// license name are snapshots; later catalog edits must not rewrite history.
type Sale struct {
	ID             string
	EventID        string
	ProductID      string
	ProductTitle   string
	LicenseID      string
	LicenseName    string
	Customer       string
	Amount         float64
	Date           time.Time
	Status         string
	FilesDelivered []string
	DownloadURLs   []string
}

// SaleCompleted is the only sale status the pipeline writes today.
const SaleCompleted = "completed"

// Stats aggregates the ledger for operator reporting.
type Stats struct {
	TotalRevenue float64
	TotalSales   int
	ActiveBeats  int
	TopProducts  []ProductSales
}

// ProductSales pairs a product title snapshot with its sale count.
type ProductSales struct {
	Title string
	Count int
}
