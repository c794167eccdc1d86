// Package config loads and validates the beatstore TOML configuration.
// Load resolves the config path, applies repository defaults, normalizes
// filesystem paths, and validates the result before anything else starts.
package config
