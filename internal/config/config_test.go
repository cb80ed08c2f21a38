package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.OCR.Language != "eng" {
		t.Fatalf("unexpected default language: %q", cfg.OCR.Language)
	}
	if cfg.Correction.Mode != "standard" {
		t.Fatalf("unexpected default mode: %q", cfg.Correction.Mode)
	}
	if cfg.OCR.FrameTimeoutSeconds != 30 {
		t.Fatalf("unexpected frame timeout: %d", cfg.OCR.FrameTimeoutSeconds)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[ocr]
language = " ENG "
page_seg_mode = 7

[correction]
mode = "Thorough"

[paths]
temp_dir = "` + dir + `"
log_dir = "` + dir + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.OCR.Language != "eng" {
		t.Fatalf("language not normalized: %q", cfg.OCR.Language)
	}
	if cfg.OCR.PageSegMode != 7 {
		t.Fatalf("psm not applied: %d", cfg.OCR.PageSegMode)
	}
	if cfg.Correction.Mode != "thorough" {
		t.Fatalf("mode not normalized: %q", cfg.Correction.Mode)
	}
}

func TestValidateRejectsBadMode(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	cfg.Correction.Mode = "turbo"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "correction.mode") {
		t.Fatalf("expected mode validation error, got %v", err)
	}
}

func TestValidateRequiresBasenameToken(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	cfg.Extraction.NamePattern = "{lang}.srt"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected name_pattern validation error")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}
