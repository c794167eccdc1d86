// Package api exposes the HTTP surface: the public storefront catalog, the
// payment provider webhook, media downloads, and the development purchase
// simulator.
package api
