// Package config loads, normalizes, and validates the TOML configuration for
// the subtitle extractor: tool locations, OCR settings, correction modes,
// output naming, and timeout scaling.
package config
