package config

const (
	defaultTempDir             = "~/.local/share/srtextractor/tmp"
	defaultLogDir              = "~/.local/share/srtextractor/logs"
	defaultMkvmergeBinary      = "mkvmerge"
	defaultMkvextractBinary    = "mkvextract"
	defaultTesseractBinary     = "tesseract"
	defaultOCRLanguage         = "eng"
	defaultPageSegMode         = 6
	defaultFrameTimeoutSeconds = 30
	defaultCorrectionMode      = "standard"
	defaultNamePattern         = "{basename}.{lang}{forced}{cc}.srt"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"

	// Extraction timeouts scale with container size: base allowance plus a
	// per-GiB component, capped at the max.
	defaultExtractTimeoutBaseSeconds = 120
	defaultExtractTimeoutPerGiB      = 60
	defaultExtractTimeoutMaxSeconds  = 4 * 3600
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TempDir: defaultTempDir,
			LogDir:  defaultLogDir,
		},
		Tools: Tools{
			Mkvmerge:   defaultMkvmergeBinary,
			Mkvextract: defaultMkvextractBinary,
			Tesseract:  defaultTesseractBinary,
		},
		OCR: OCR{
			Language:            defaultOCRLanguage,
			PageSegMode:         defaultPageSegMode,
			FrameTimeoutSeconds: defaultFrameTimeoutSeconds,
		},
		Correction: Correction{
			Enabled:   true,
			MultiPass: true,
			Mode:      defaultCorrectionMode,
		},
		Extraction: Extraction{
			NamePattern:               defaultNamePattern,
			ExtractTimeoutBaseSeconds: defaultExtractTimeoutBaseSeconds,
			ExtractTimeoutPerGiB:      defaultExtractTimeoutPerGiB,
			ExtractTimeoutMaxSeconds:  defaultExtractTimeoutMaxSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
