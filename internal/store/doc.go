// Package store persists the catalog, license tiers, agreement templates,
// coupons, and the append-only sales ledger in SQLite. Lookups that resolve
// to no record return (nil, nil) so callers can distinguish absence from
// storage failure.
package store
