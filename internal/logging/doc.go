// Package logging wires log/slog with the handlers and helpers used across
// beatstore. It provides a console handler for interactive use, a JSON
// handler for production, and shared attribute helpers so packages do not
// import slog directly for common fields.
package logging
