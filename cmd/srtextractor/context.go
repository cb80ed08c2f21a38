package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/config"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/deps"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/logging"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/ocr"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/pipeline"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services/mkvtoolnix"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services/tesseract"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		logger, logErr := logging.NewFromConfig(cfg)
		if logErr != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger, nil
}

// buildToolkit wires the mkvtoolnix client from configured binary locations,
// verifying both tools resolve first.
func (c *commandContext) buildToolkit() (mkvtoolnix.Toolkit, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := deps.Require("mkvmerge", cfg.Tools.Mkvmerge); err != nil {
		return nil, err
	}
	if err := deps.Require("mkvextract", cfg.Tools.Mkvextract); err != nil {
		return nil, err
	}
	return mkvtoolnix.New(cfg.Tools.Mkvmerge, cfg.Tools.Mkvextract,
		mkvtoolnix.WithTimeoutPolicy(mkvtoolnix.TimeoutPolicy{
			Base:   time.Duration(cfg.Extraction.ExtractTimeoutBaseSeconds) * time.Second,
			PerGiB: time.Duration(cfg.Extraction.ExtractTimeoutPerGiB) * time.Second,
			Max:    time.Duration(cfg.Extraction.ExtractTimeoutMaxSeconds) * time.Second,
		}))
}

// buildRecognizer returns a tesseract-backed recognizer, or nil when the
// binary is not available. Image tracks then fail with guidance while text
// tracks keep working.
func (c *commandContext) buildRecognizer() (ocr.Recognizer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := deps.Require("tesseract", cfg.Tools.Tesseract); err != nil {
		return nil, nil
	}
	return tesseract.New(cfg.Tools.Tesseract, cfg.Paths.TempDir,
		tesseract.WithTessdataDir(cfg.Tools.TessdataDir),
		tesseract.WithPageSegMode(cfg.OCR.PageSegMode),
		tesseract.WithFrameTimeout(time.Duration(cfg.OCR.FrameTimeoutSeconds)*time.Second))
}

func (c *commandContext) buildCoordinator(opts ...pipeline.Option) (*pipeline.Coordinator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	toolkit, err := c.buildToolkit()
	if err != nil {
		return nil, err
	}
	recognizer, err := c.buildRecognizer()
	if err != nil {
		return nil, err
	}
	all := []pipeline.Option{pipeline.WithLogger(logger)}
	if recognizer != nil {
		all = append(all, pipeline.WithRecognizer(recognizer))
	}
	all = append(all, opts...)
	return pipeline.New(cfg, toolkit, all...)
}

// acquireRunLock takes the single-instance lock so two extractions never run
// against the same scratch space.
func (c *commandContext) acquireRunLock() (*flock.Flock, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "srtextractor.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another extraction is already running (lock %s)", lock.Path())
	}
	return lock, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
