// Package fulfillment runs the purchase pipeline: resolve the entitlement,
// assemble the delivery package, dispatch the email, and write the sale to
// the ledger. Control flows strictly forward; a failed send aborts before
// the ledger write, while a failed ledger write never unwinds the email the
// buyer already received.
package fulfillment
