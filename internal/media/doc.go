// Package media defines the deliverable file categories a license can grant
// and the read-time normalization rules for legacy catalog records. It also
// provides the Library type used to resolve and probe media references on
// local storage.
package media
