// Package ocr converts a parsed image-subtitle stream into timed text events
// by running each rendered frame through a recognizer.
package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/logging"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/pgs"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/subtitles"
)

// Recognizer turns one rendered subtitle frame into text. The tesseract
// client satisfies this.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, lang string) (string, error)
}

// Progress is emitted after every frame so callers can drive a progress bar.
type Progress struct {
	Processed  int
	Total      int
	Recognized int
}

// Stats summarizes one pipeline run.
type Stats struct {
	TotalFrames      int
	DegenerateFrames int
	EmptyFrames      int
	RecognizedFrames int
	Elapsed          time.Duration
}

// Pipeline drives frame recognition in presentation order.
type Pipeline struct {
	recognizer Recognizer
	logger     *slog.Logger
	onProgress func(Progress)
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithLogger attaches a logger; the pipeline is silent without one.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithProgress registers a per-frame progress callback. The callback runs on
// the pipeline goroutine and must return promptly.
func WithProgress(fn func(Progress)) Option {
	return func(p *Pipeline) { p.onProgress = fn }
}

// New returns a pipeline over the given recognizer.
func New(recognizer Recognizer, opts ...Option) *Pipeline {
	p := &Pipeline{recognizer: recognizer, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run parses the stream at supPath and recognizes every frame in order. A
// frame with no decodable image or no recognized text is skipped without
// failing the run; cancellation between frames aborts it. Frame images are
// released as soon as each frame has been recognized so memory stays bounded
// by one frame, not the whole stream.
func (p *Pipeline) Run(ctx context.Context, supPath, lang string) ([]subtitles.Event, Stats, error) {
	start := time.Now()

	frames, err := pgs.Parse(supPath)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("parse subtitle stream: %w", err)
	}
	events, stats, err := p.processFrames(ctx, frames, lang)
	if err != nil {
		return nil, stats, err
	}
	stats.Elapsed = time.Since(start)
	p.logger.Info("recognition finished",
		logging.FieldComponent, "ocr",
		"frames", stats.TotalFrames,
		"recognized", stats.RecognizedFrames,
		"empty", stats.EmptyFrames,
		"degenerate", stats.DegenerateFrames)
	return events, stats, nil
}

func (p *Pipeline) processFrames(ctx context.Context, frames []pgs.Frame, lang string) ([]subtitles.Event, Stats, error) {
	stats := Stats{TotalFrames: len(frames)}
	events := make([]subtitles.Event, 0, len(frames))
	for i := range frames {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		frame := &frames[i]
		if frame.Degenerate() {
			stats.DegenerateFrames++
			frame.Image = nil
			p.report(i+1, len(frames), stats.RecognizedFrames)
			continue
		}

		text, err := p.recognizer.Recognize(ctx, frame.Image, lang)
		frame.Image = nil
		if err != nil {
			return nil, stats, fmt.Errorf("recognize frame %d: %w", i+1, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			stats.EmptyFrames++
			p.logger.Debug("frame produced no text",
				logging.FieldComponent, "ocr",
				"frame", i+1)
			p.report(i+1, len(frames), stats.RecognizedFrames)
			continue
		}

		stats.RecognizedFrames++
		events = append(events, subtitles.Event{
			Start: frame.Start(),
			End:   frame.End(),
			Lines: splitLines(text),
		})
		p.report(i+1, len(frames), stats.RecognizedFrames)
	}

	subtitles.SortByStart(events)
	return events, stats, nil
}

func (p *Pipeline) report(processed, total, recognized int) {
	if p.onProgress == nil {
		return
	}
	p.onProgress(Progress{Processed: processed, Total: total, Recognized: recognized})
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
