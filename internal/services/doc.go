// Package services holds the cross-cutting error taxonomy and context
// annotations shared by the fulfillment pipeline and the HTTP boundary.
package services
