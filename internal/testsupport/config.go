// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.TempDir = filepath.Join(base, "tmp")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.OutputDir = filepath.Join(base, "out")

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithCorrectionMode sets the multi-pass correction mode on the test config.
func WithCorrectionMode(mode string) ConfigOption {
	return func(c *config.Config) {
		c.Correction.Enabled = true
		c.Correction.MultiPass = true
		c.Correction.Mode = mode
	}
}

// WithKeepIntermediate preserves raw image-subtitle containers after
// extraction.
func WithKeepIntermediate() ConfigOption {
	return func(c *config.Config) {
		c.Extraction.KeepIntermediate = true
	}
}
