// Package logging provides slog helpers shared across the bridge:
// consistent attribute keys, a constructor honoring the configured level
// and format, and sanitization of cluster error strings that may embed
// API server addresses.
package logging
