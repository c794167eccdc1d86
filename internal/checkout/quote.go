package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"beatstore/internal/logging"
	"beatstore/internal/services"
	"beatstore/internal/store"
)

// Quote prices one product/license line. Discount is the amount taken off
// the list price; Total never goes below zero.
type Quote struct {
	ProductID  string
	LicenseID  string
	ListPrice  float64
	Discount   float64
	Total      float64
	CouponID   string
	CouponCode string
}

// Engine prices storefront purchases.
type Engine struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine constructs a pricing engine backed by the catalog store.
func NewEngine(st *store.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		store:  st,
		logger: logging.WithComponent(logger, "checkout"),
		now:    time.Now,
	}
}

// Price quotes a product/license pair with an optional coupon code. Unknown
// or inactive products and unknown licenses are not-found conditions; an
// unusable coupon is a validation failure so the storefront can tell the
// buyer why.
func (e *Engine) Price(ctx context.Context, productID, licenseID, couponCode string) (*Quote, error) {
	product, err := e.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "checkout", "load product", productID, err)
	}
	if !product.Active() {
		return nil, services.Wrap(services.ErrNotFound, "checkout", "price", "product unavailable: "+productID, nil)
	}

	license, err := e.store.GetLicense(ctx, licenseID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "checkout", "load license", licenseID, err)
	}
	if license == nil {
		return nil, services.Wrap(services.ErrNotFound, "checkout", "price", "unknown license "+licenseID, nil)
	}

	quote := &Quote{
		ProductID: product.ID,
		LicenseID: license.ID,
		ListPrice: license.Price,
		Total:     license.Price,
	}

	code := strings.TrimSpace(couponCode)
	if code == "" {
		return quote, nil
	}

	coupon, err := e.store.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "checkout", "load coupon", code, err)
	}
	if err := usable(coupon, e.now()); err != nil {
		return nil, err
	}

	quote.CouponID = coupon.ID
	quote.CouponCode = coupon.Code
	quote.Discount = discount(coupon, license.Price)
	quote.Total = roundCents(license.Price - quote.Discount)
	if quote.Total < 0 {
		quote.Total = 0
	}

	e.logger.Info("coupon applied",
		logging.String("code", coupon.Code),
		logging.Float64("discount", quote.Discount))
	return quote, nil
}

// Redeem records one use of a previously quoted coupon.
func (e *Engine) Redeem(ctx context.Context, couponID string) error {
	if couponID == "" {
		return nil
	}
	if err := e.store.IncrementCouponUses(ctx, couponID); err != nil {
		return services.Wrap(services.ErrTransient, "checkout", "redeem coupon", couponID, err)
	}
	return nil
}

func usable(coupon *store.Coupon, now time.Time) error {
	if coupon == nil {
		return services.Wrap(services.ErrValidation, "checkout", "coupon", "unknown coupon code", nil)
	}
	if !coupon.Active {
		return services.Wrap(services.ErrValidation, "checkout", "coupon", "coupon is inactive", nil)
	}
	if coupon.UseLimit > 0 && coupon.Uses >= coupon.UseLimit {
		return services.Wrap(services.ErrValidation, "checkout", "coupon", "coupon use limit reached", nil)
	}
	if coupon.ExpiresAt != "" {
		expires, err := time.Parse(time.RFC3339, coupon.ExpiresAt)
		if err != nil {
			return services.Wrap(services.ErrValidation, "checkout", "coupon", fmt.Sprintf("malformed expiry %q", coupon.ExpiresAt), err)
		}
		if now.After(expires) {
			return services.Wrap(services.ErrValidation, "checkout", "coupon", "coupon expired", nil)
		}
	}
	return nil
}

func discount(coupon *store.Coupon, price float64) float64 {
	switch coupon.Kind {
	case store.CouponPercentage:
		return roundCents(price * coupon.Value / 100)
	case store.CouponFixed:
		return roundCents(coupon.Value)
	default:
		return 0
	}
}

func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}
