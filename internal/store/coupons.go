package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const couponColumns = "id, code, kind, value, uses, use_limit, expires_at, active, created_at"

// SaveCoupon inserts or replaces a discount code.
func (s *Store) SaveCoupon(ctx context.Context, coupon *Coupon) error {
	if coupon == nil {
		return errors.New("coupon is nil")
	}
	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = time.Now().UTC()
	}
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO coupons (`+couponColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             code = excluded.code, kind = excluded.kind, value = excluded.value,
             uses = excluded.uses, use_limit = excluded.use_limit,
             expires_at = excluded.expires_at, active = excluded.active`,
		coupon.ID,
		coupon.Code,
		coupon.Kind,
		coupon.Value,
		coupon.Uses,
		coupon.UseLimit,
		nullableString(coupon.ExpiresAt),
		boolToInt(coupon.Active),
		formatTime(coupon.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save coupon: %w", err)
	}
	return nil
}

// GetCouponByCode looks up a coupon by its code, case-insensitively.
func (s *Store) GetCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	row := s.db.QueryRowContext(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = ?`, normalized)
	coupon, err := scanCoupon(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return coupon, nil
}

// IncrementCouponUses records a redemption.
func (s *Store) IncrementCouponUses(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE coupons SET uses = uses + 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("increment coupon uses: %w", err)
	}
	return nil
}

func scanCoupon(scanner interface{ Scan(dest ...any) error }) (*Coupon, error) {
	var (
		id         string
		code       string
		kind       string
		value      float64
		uses       int64
		useLimit   int64
		expiresAt  sql.NullString
		active     int
		createdRaw sql.NullString
	)

	if err := scanner.Scan(&id, &code, &kind, &value, &uses, &useLimit, &expiresAt, &active, &createdRaw); err != nil {
		return nil, err
	}

	coupon := &Coupon{
		ID:        id,
		Code:      code,
		Kind:      kind,
		Value:     value,
		Uses:      uses,
		UseLimit:  useLimit,
		ExpiresAt: expiresAt.String,
		Active:    active != 0,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		coupon.CreatedAt = created
	}
	return coupon, nil
}
