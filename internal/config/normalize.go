package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeOCR()
	c.normalizeCorrection()
	c.normalizeExtraction()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = defaultTempDir
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.Mkvmerge) == "" {
		c.Tools.Mkvmerge = defaultMkvmergeBinary
	}
	if strings.TrimSpace(c.Tools.Mkvextract) == "" {
		c.Tools.Mkvextract = defaultMkvextractBinary
	}
	if strings.TrimSpace(c.Tools.Tesseract) == "" {
		c.Tools.Tesseract = defaultTesseractBinary
	}
	c.Tools.TessdataDir = strings.TrimSpace(c.Tools.TessdataDir)
}

func (c *Config) normalizeOCR() {
	c.OCR.Language = strings.ToLower(strings.TrimSpace(c.OCR.Language))
	if c.OCR.Language == "" {
		c.OCR.Language = defaultOCRLanguage
	}
	if c.OCR.PageSegMode <= 0 {
		c.OCR.PageSegMode = defaultPageSegMode
	}
	if c.OCR.FrameTimeoutSeconds <= 0 {
		c.OCR.FrameTimeoutSeconds = defaultFrameTimeoutSeconds
	}
}

func (c *Config) normalizeCorrection() {
	c.Correction.Mode = strings.ToLower(strings.TrimSpace(c.Correction.Mode))
	if c.Correction.Mode == "" {
		c.Correction.Mode = defaultCorrectionMode
	}
}

func (c *Config) normalizeExtraction() {
	if strings.TrimSpace(c.Extraction.NamePattern) == "" {
		c.Extraction.NamePattern = defaultNamePattern
	}
	if c.Extraction.ExtractTimeoutBaseSeconds <= 0 {
		c.Extraction.ExtractTimeoutBaseSeconds = defaultExtractTimeoutBaseSeconds
	}
	if c.Extraction.ExtractTimeoutPerGiB <= 0 {
		c.Extraction.ExtractTimeoutPerGiB = defaultExtractTimeoutPerGiB
	}
	if c.Extraction.ExtractTimeoutMaxSeconds <= 0 {
		c.Extraction.ExtractTimeoutMaxSeconds = defaultExtractTimeoutMaxSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
