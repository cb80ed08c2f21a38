package config

import (
	"errors"
	"fmt"
	"strings"
)

var validCorrectionModes = map[string]struct{}{
	"fast":     {},
	"standard": {},
	"thorough": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validateCorrection(); err != nil {
		return err
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		return errors.New("paths.temp_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateOCR() error {
	if c.OCR.PageSegMode < 0 || c.OCR.PageSegMode > 13 {
		return fmt.Errorf("ocr.page_seg_mode must be between 0 and 13, got %d", c.OCR.PageSegMode)
	}
	if c.OCR.FrameTimeoutSeconds <= 0 {
		return errors.New("ocr.frame_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCorrection() error {
	if _, ok := validCorrectionModes[c.Correction.Mode]; !ok {
		return fmt.Errorf("correction.mode must be one of fast, standard, thorough; got %q", c.Correction.Mode)
	}
	return nil
}

func (c *Config) validateExtraction() error {
	if !strings.Contains(c.Extraction.NamePattern, "{basename}") {
		return errors.New("extraction.name_pattern must contain the {basename} token")
	}
	if c.Extraction.ExtractTimeoutMaxSeconds < c.Extraction.ExtractTimeoutBaseSeconds {
		return errors.New("extraction.extract_timeout_max_seconds must be >= extract_timeout_base_seconds")
	}
	return nil
}
