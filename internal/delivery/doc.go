// Package delivery turns a resolved entitlement into the concrete package
// attached to the delivery email: it probes media existence, decides between
// a single archive bundle and individual attachments, and degrades to
// partial delivery when files or the archive step fail.
package delivery
