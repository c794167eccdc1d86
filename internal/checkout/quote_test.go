package checkout_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beatstore/internal/checkout"
	"beatstore/internal/media"
	"beatstore/internal/services"
	"beatstore/internal/store"
	"beatstore/internal/testsupport"
)

func priceSetup(t *testing.T) (*checkout.Engine, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	testsupport.SaveProduct(t, st, testsupport.NewProduct("trap_wave_001", "Trap Wave 001"))
	testsupport.SaveLicense(t, st, testsupport.NewLicense("basic", "Basic Lease (MP3)", 29.99, media.CategoryMP3))
	return checkout.NewEngine(st, nil), st
}

func TestPriceWithoutCoupon(t *testing.T) {
	engine, _ := priceSetup(t)

	quote, err := engine.Price(context.Background(), "trap_wave_001", "basic", "")
	require.NoError(t, err)
	assert.InDelta(t, 29.99, quote.ListPrice, 0.001)
	assert.InDelta(t, 29.99, quote.Total, 0.001)
	assert.Zero(t, quote.Discount)
	assert.Empty(t, quote.CouponID)
}

func TestPricePercentageCoupon(t *testing.T) {
	engine, st := priceSetup(t)
	ctx := context.Background()
	require.NoError(t, st.SaveCoupon(ctx, &store.Coupon{
		ID: "c1", Code: "LAUNCH10", Kind: store.CouponPercentage, Value: 10, Active: true,
	}))

	quote, err := engine.Price(ctx, "trap_wave_001", "basic", "launch10")
	require.NoError(t, err)
	assert.InDelta(t, 3.00, quote.Discount, 0.001)
	assert.InDelta(t, 26.99, quote.Total, 0.001)
	assert.Equal(t, "c1", quote.CouponID)
}

func TestPriceFixedCouponClampsAtZero(t *testing.T) {
	engine, st := priceSetup(t)
	ctx := context.Background()
	require.NoError(t, st.SaveCoupon(ctx, &store.Coupon{
		ID: "c2", Code: "BIG", Kind: store.CouponFixed, Value: 50, Active: true,
	}))

	quote, err := engine.Price(ctx, "trap_wave_001", "basic", "BIG")
	require.NoError(t, err)
	assert.Zero(t, quote.Total)
	assert.InDelta(t, 50, quote.Discount, 0.001)
}

func TestPriceRejectsUnusableCoupons(t *testing.T) {
	engine, st := priceSetup(t)
	ctx := context.Background()

	_, err := engine.Price(ctx, "trap_wave_001", "basic", "NOPE")
	assert.ErrorIs(t, err, services.ErrValidation)

	require.NoError(t, st.SaveCoupon(ctx, &store.Coupon{
		ID: "inactive", Code: "OFF", Kind: store.CouponFixed, Value: 5, Active: false,
	}))
	_, err = engine.Price(ctx, "trap_wave_001", "basic", "OFF")
	assert.ErrorIs(t, err, services.ErrValidation)

	require.NoError(t, st.SaveCoupon(ctx, &store.Coupon{
		ID: "spent", Code: "SPENT", Kind: store.CouponFixed, Value: 5, Active: true, Uses: 3, UseLimit: 3,
	}))
	_, err = engine.Price(ctx, "trap_wave_001", "basic", "SPENT")
	assert.ErrorIs(t, err, services.ErrValidation)

	require.NoError(t, st.SaveCoupon(ctx, &store.Coupon{
		ID: "expired", Code: "OLD", Kind: store.CouponFixed, Value: 5, Active: true,
		ExpiresAt: time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	}))
	_, err = engine.Price(ctx, "trap_wave_001", "basic", "OLD")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestPriceUnknownRecords(t *testing.T) {
	engine, st := priceSetup(t)
	ctx := context.Background()

	_, err := engine.Price(ctx, "missing", "basic", "")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = engine.Price(ctx, "trap_wave_001", "missing", "")
	assert.ErrorIs(t, err, services.ErrNotFound)

	retired := testsupport.NewProduct("retired", "Retired")
	retired.Status = store.StatusInactive
	testsupport.SaveProduct(t, st, retired)
	_, err = engine.Price(ctx, "retired", "basic", "")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestRedeemIncrementsUses(t *testing.T) {
	engine, st := priceSetup(t)
	ctx := context.Background()
	require.NoError(t, st.SaveCoupon(ctx, &store.Coupon{
		ID: "c1", Code: "LAUNCH10", Kind: store.CouponPercentage, Value: 10, Active: true,
	}))

	require.NoError(t, engine.Redeem(ctx, "c1"))
	coupon, err := st.GetCouponByCode(ctx, "LAUNCH10")
	require.NoError(t, err)
	assert.Equal(t, int64(1), coupon.Uses)

	require.NoError(t, engine.Redeem(ctx, ""))
}
