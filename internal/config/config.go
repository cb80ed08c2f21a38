package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	TempDir   string `toml:"temp_dir"`
	LogDir    string `toml:"log_dir"`
	OutputDir string `toml:"output_dir"`
}

// Tools contains external tool binary locations. Empty values fall back to
// PATH lookup of the conventional binary names.
type Tools struct {
	Mkvmerge   string `toml:"mkvmerge"`
	Mkvextract string `toml:"mkvextract"`
	Tesseract  string `toml:"tesseract"`
	// TessdataDir points tesseract at its language training data; empty uses
	// the engine's compiled-in default.
	TessdataDir string `toml:"tessdata_dir"`
}

// OCR contains settings for the image-subtitle recognition path.
type OCR struct {
	// Language is the tesseract training-data code (e.g. "eng").
	Language string `toml:"language"`
	// PageSegMode is the tesseract page segmentation mode. Subtitle frames
	// are single uniform text blocks, so 6 is the working default.
	PageSegMode int `toml:"page_seg_mode"`
	// FrameTimeoutSeconds bounds a single frame recognition call.
	FrameTimeoutSeconds int `toml:"frame_timeout_seconds"`
}

// Correction contains settings for the OCR text correction engine.
type Correction struct {
	Enabled   bool `toml:"enabled"`
	MultiPass bool `toml:"multi_pass"`
	// Mode selects the pass budget: "fast", "standard", or "thorough".
	Mode string `toml:"mode"`
}

// Extraction contains settings for the extraction pipeline itself.
type Extraction struct {
	// NamePattern names output files. Tokens: {basename}, {lang}, {forced},
	// {cc}. The suffix tokens expand to empty when the flag is unset.
	NamePattern string `toml:"name_pattern"`
	// KeepIntermediate preserves the raw .sup container after an image-path
	// extraction instead of deleting it. Debugging affordance.
	KeepIntermediate bool `toml:"keep_intermediate"`
	// ExtractTimeoutBaseSeconds and ExtractTimeoutPerGiB scale extraction
	// timeouts with input size, capped by ExtractTimeoutMaxSeconds.
	ExtractTimeoutBaseSeconds int `toml:"extract_timeout_base_seconds"`
	ExtractTimeoutPerGiB      int `toml:"extract_timeout_per_gib"`
	ExtractTimeoutMaxSeconds  int `toml:"extract_timeout_max_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the extractor.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Tools      Tools      `toml:"tools"`
	OCR        OCR        `toml:"ocr"`
	Correction Correction `toml:"correction"`
	Extraction Extraction `toml:"extraction"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/srtextractor/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is
// the resolved path, the third reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err = os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("srtextractor.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.TempDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if err := os.MkdirAll(c.Paths.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", c.Paths.OutputDir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves ~ and relative segments to an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(path)
}
