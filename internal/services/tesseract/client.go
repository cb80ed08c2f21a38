package tesseract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/fileutil"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services"
)

// Recognizer defines the behaviour the OCR pipeline needs from this client.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, lang string) (string, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithTessdataDir points tesseract at a language training data directory.
func WithTessdataDir(dir string) Option {
	return func(c *Client) {
		c.tessdataDir = strings.TrimSpace(dir)
	}
}

// WithPageSegMode overrides the page segmentation mode.
func WithPageSegMode(psm int) Option {
	return func(c *Client) {
		if psm >= 0 {
			c.psm = psm
		}
	}
}

// WithFrameTimeout overrides the per-call timeout.
func WithFrameTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.frameTimeout = d
		}
	}
}

// Client wraps tesseract CLI interactions for single subtitle frames.
type Client struct {
	binary       string
	tempDir      string
	tessdataDir  string
	psm          int
	frameTimeout time.Duration
	exec         services.Executor
}

// Subtitle frames are single uniform blocks of text; recognizing one should
// never legitimately take longer than this.
const defaultFrameTimeout = 30 * time.Second

// New constructs a tesseract client writing scratch files under tempDir.
func New(binary, tempDir string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("tesseract binary required")
	}
	if strings.TrimSpace(tempDir) == "" {
		return nil, errors.New("temp directory required")
	}
	client := &Client{
		binary:       binary,
		tempDir:      tempDir,
		psm:          6,
		frameTimeout: defaultFrameTimeout,
		exec:         services.ProcessExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Recognize runs one frame through tesseract and returns the recognized text,
// which may be empty. A non-zero engine exit or a missing result file is
// treated as empty recognition, not an error: occasional single-frame OCR
// failures are expected and must not abort the track. Scratch files are
// removed on every exit path.
func (c *Client) Recognize(ctx context.Context, img image.Image, lang string) (string, error) {
	if img == nil {
		return "", errors.New("tesseract recognize: nil image")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	inputPath, err := fileutil.TempPath(c.tempDir, "ocr-frame", ".png")
	if err != nil {
		return "", fmt.Errorf("allocate frame scratch: %w", err)
	}
	defer os.Remove(inputPath)

	outputBase, err := fileutil.TempPath(c.tempDir, "ocr-text", "")
	if err != nil {
		return "", fmt.Errorf("allocate text scratch: %w", err)
	}
	// Tesseract appends its own extension to the output base.
	outputPath := outputBase + ".txt"
	defer os.Remove(outputPath)

	if err := writeFramePNG(inputPath, img); err != nil {
		return "", fmt.Errorf("write frame: %w", err)
	}

	args := []string{inputPath, outputBase, "-l", lang, "--psm", strconv.Itoa(c.psm)}
	if c.tessdataDir != "" {
		args = append(args, "--tessdata-dir", c.tessdataDir)
	}

	result, err := c.exec.Run(ctx, services.Command{
		Binary:  c.binary,
		Args:    args,
		Timeout: c.frameTimeout,
	})
	if err != nil {
		if errors.Is(err, services.ErrToolNotFound) {
			return "", services.Wrap(services.ErrToolNotFound, "ocr", "tesseract", c.binary, err)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		// Timeouts and transport errors on a single frame degrade to empty
		// recognition; the pipeline skips the event.
		return "", nil
	}
	if result.ExitCode != 0 {
		return "", nil
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(string(data)), nil
}

// writeFramePNG flattens the subtitle bitmap for recognition: opaque bright
// glyph pixels become dark ink, everything else becomes white paper.
func writeFramePNG(path string, src image.Image) error {
	bounds := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := src.At(x, y).RGBA()
			px := color.Gray{Y: 255}
			if a >= 0x8000 {
				// Invert luminance so light-on-dark subtitles read as ink.
				luma := (299*r + 587*g + 114*b) / 1000
				px = color.Gray{Y: uint8(255 - luma>>8)}
			}
			out.SetGray(x-bounds.Min.X, y-bounds.Min.Y, px)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
