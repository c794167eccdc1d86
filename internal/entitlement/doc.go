// Package entitlement resolves what a buyer is owed for a product and
// license pair: the file categories the license grants and the media
// references that back them.
package entitlement
