// Package checkout covers the payment boundary: pricing a cart line with
// an optional coupon, and verifying signed completion events from the
// payment provider before they reach the fulfillment pipeline.
package checkout
