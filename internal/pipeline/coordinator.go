package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/config"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/correction"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/fileutil"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/language"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/logging"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/naming"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/ocr"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services/mkvtoolnix"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/subtitles"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/tracks"
)

// Coordinator routes one subtitle track at a time through extraction,
// recognition, and correction. A single coordinator serves one extraction at
// a time; starting a second while one is running fails fast.
type Coordinator struct {
	cfg        *config.Config
	toolkit    mkvtoolnix.Toolkit
	recognizer ocr.Recognizer
	engine     *correction.Engine
	pattern    naming.Pattern
	logger     *slog.Logger
	onEvent    func(Event)
	busy       atomic.Bool
}

// Option configures the coordinator.
type Option func(*Coordinator)

// WithRecognizer injects the OCR frame recognizer. Without one the image
// path reports tesseract as unavailable.
func WithRecognizer(recognizer ocr.Recognizer) Option {
	return func(c *Coordinator) { c.recognizer = recognizer }
}

// WithLogger attaches a logger; the coordinator is silent without one.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithEventSink registers a callback for progress events. The callback runs
// on the extraction goroutine and must return promptly.
func WithEventSink(fn func(Event)) Option {
	return func(c *Coordinator) { c.onEvent = fn }
}

// WithCorrectionRules overrides the default correction ruleset.
func WithCorrectionRules(rules []correction.Rule) Option {
	return func(c *Coordinator) { c.engine = correction.NewEngine(rules) }
}

// New builds a coordinator over the given configuration and container
// toolkit.
func New(cfg *config.Config, toolkit mkvtoolnix.Toolkit, opts ...Option) (*Coordinator, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if toolkit == nil {
		return nil, errors.New("container toolkit required")
	}
	pattern, err := naming.NewPattern(cfg.Extraction.NamePattern)
	if err != nil {
		return nil, err
	}
	c := &Coordinator{
		cfg:     cfg,
		toolkit: toolkit,
		engine:  correction.NewEngine(nil),
		pattern: pattern,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Result is the outcome of one track extraction.
type Result struct {
	RunID      string
	Track      tracks.Track
	OutputPath string
	Events     int
	State      State
	OCRStats   ocr.Stats
	Correction correction.RunResult
}

// Probe enumerates the container's subtitle tracks.
func (c *Coordinator) Probe(ctx context.Context, containerPath string) ([]tracks.Track, error) {
	return c.toolkit.Probe(ctx, containerPath)
}

// Extract runs the full pipeline for one track and writes the resulting SRT
// file. Only one extraction may run at a time.
func (c *Coordinator) Extract(ctx context.Context, containerPath string, track tracks.Track) (Result, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return Result{}, services.Wrap(services.ErrValidation, "pipeline", "extract",
			"another extraction is already running", nil)
	}
	defer c.busy.Store(false)
	return c.extract(ctx, containerPath, track)
}

func (c *Coordinator) extract(ctx context.Context, containerPath string, track tracks.Track) (Result, error) {
	runID := uuid.NewString()[:8]
	ctx = services.WithRunID(ctx, runID)
	res := Result{RunID: runID, Track: track, State: StateDispatching}

	c.emit(Event{RunID: runID, State: StateDispatching, Track: track,
		Message: fmt.Sprintf("track %d (%s)", track.DisplayID, track.Family)})

	var (
		events []subtitles.Event
		err    error
	)
	switch track.Family {
	case tracks.FamilyTextSrt, tracks.FamilyTextAss, tracks.FamilyTextWebVtt, tracks.FamilyTextGeneric:
		res.State = StateTextExtract
		events, err = c.extractText(ctx, containerPath, track, runID)
	case tracks.FamilyImagePgs:
		res.State = StateImageExtract
		events, res.OCRStats, err = c.extractImage(ctx, containerPath, track, runID)
	case tracks.FamilyImageVobSub:
		return c.reject(res, track,
			"VobSub subtitles cannot be recognized here; convert the track to SRT with an external OCR tool such as Subtitle Edit first")
	case tracks.FamilyImageDvb:
		return c.reject(res, track, "DVB image subtitles are not supported")
	case tracks.FamilyUnknown:
		return c.reject(res, track, fmt.Sprintf("unrecognized subtitle codec %q", track.CodecTag))
	default:
		return c.reject(res, track, fmt.Sprintf("unhandled codec family %q", track.Family))
	}
	if err != nil {
		return c.fail(ctx, res, track, err)
	}

	text, corrRes, err := c.correct(ctx, runID, track, events)
	if err != nil {
		return c.fail(ctx, res, track, err)
	}
	res.Correction = corrRes
	res.Events = len(events)

	outputPath, err := c.outputPath(containerPath, track)
	if err != nil {
		return c.fail(ctx, res, track, err)
	}
	if err := writeTextAtomic(outputPath, text); err != nil {
		return c.fail(ctx, res, track, fmt.Errorf("write output: %w", err))
	}
	res.OutputPath = outputPath
	res.State = StateDone
	c.emit(Event{RunID: runID, State: StateDone, Track: track, Message: outputPath})
	c.logger.Info("extraction finished",
		logging.FieldComponent, "pipeline",
		logging.FieldRunID, runID,
		logging.FieldTrack, track.DisplayID,
		"events", res.Events,
		"output", outputPath)
	return res, nil
}

func (c *Coordinator) reject(res Result, track tracks.Track, guidance string) (Result, error) {
	res.State = StateRejected
	c.emit(Event{RunID: res.RunID, State: StateRejected, Track: track, Message: guidance})
	return res, services.Wrap(services.ErrUnsupportedCodec, "pipeline", "dispatch", guidance, nil)
}

func (c *Coordinator) fail(ctx context.Context, res Result, track tracks.Track, err error) (Result, error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		res.State = StateCancelled
		c.emit(Event{RunID: res.RunID, State: StateCancelled, Track: track, Message: "cancelled"})
		return res, err
	}
	res.State = StateFailed
	c.emit(Event{RunID: res.RunID, State: StateFailed, Track: track, Message: err.Error()})
	return res, err
}

// extractText pulls a text-coded track and normalizes whatever dialect the
// extraction tool produced into plain SRT events. mkvextract writes the
// codec-native format regardless of the requested extension, so the result
// is classified by content, never by extension.
func (c *Coordinator) extractText(ctx context.Context, containerPath string, track tracks.Track, runID string) ([]subtitles.Event, error) {
	c.emit(Event{RunID: runID, State: StateTextExtract, Track: track, Message: "extracting text track"})

	tmp, err := fileutil.TempPath(c.cfg.Paths.TempDir, "extract", ".srt")
	if err != nil {
		return nil, err
	}
	defer c.removeIntermediate(tmp)

	if err := c.toolkit.ExtractTrack(ctx, containerPath, track.ExtractID, tmp); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := subtitles.DetectFile(tmp)
	if err != nil {
		return nil, fmt.Errorf("inspect extracted track: %w", err)
	}
	switch format {
	case subtitles.FormatASS:
		c.logger.Info("normalizing styled markup to SRT",
			logging.FieldComponent, "pipeline",
			logging.FieldRunID, runID)
		return convertFile(tmp, subtitles.ConvertASS)
	case subtitles.FormatVTT:
		c.logger.Info("normalizing web captions to SRT",
			logging.FieldComponent, "pipeline",
			logging.FieldRunID, runID)
		return convertFile(tmp, subtitles.ConvertVTT)
	default:
		return subtitles.ParseFile(tmp)
	}
}

// extractImage pulls a PGS track to a raw .sup container and recognizes it
// frame by frame. The intermediate container is deleted on every exit path
// unless its preservation was requested.
func (c *Coordinator) extractImage(ctx context.Context, containerPath string, track tracks.Track, runID string) ([]subtitles.Event, ocr.Stats, error) {
	if c.recognizer == nil {
		return nil, ocr.Stats{}, services.Wrap(services.ErrToolNotFound, "pipeline", "image_extract",
			"tesseract is not configured; image subtitle recognition is unavailable", nil)
	}

	c.emit(Event{RunID: runID, State: StateImageExtract, Track: track, Message: "extracting image track"})

	supPath, err := fileutil.TempPath(c.cfg.Paths.TempDir, "extract", ".sup")
	if err != nil {
		return nil, ocr.Stats{}, err
	}
	defer func() {
		if c.cfg.Extraction.KeepIntermediate {
			c.logger.Info("keeping intermediate container",
				logging.FieldComponent, "pipeline",
				logging.FieldRunID, runID,
				"path", supPath)
			return
		}
		c.removeIntermediate(supPath)
	}()

	if err := c.toolkit.ExtractTrack(ctx, containerPath, track.ExtractID, supPath); err != nil {
		return nil, ocr.Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, ocr.Stats{}, err
	}

	recognition := ocr.New(c.recognizer,
		ocr.WithLogger(c.logger),
		ocr.WithProgress(func(p ocr.Progress) {
			c.emit(Event{
				RunID:       runID,
				State:       StateImageExtract,
				Track:       track,
				Message:     "recognizing frames",
				FramesDone:  p.Processed,
				FramesTotal: p.Total,
			})
		}))
	return recognition.Run(ctx, supPath, c.ocrLanguage(track))
}

func (c *Coordinator) ocrLanguage(track tracks.Track) string {
	if track.Language != "" {
		return language.TesseractCode(track.Language)
	}
	return c.cfg.OCR.Language
}

// correct renders events as SRT text and applies the configured correction
// strategy. A multi-pass failure degrades to a single application instead of
// failing the extraction.
func (c *Coordinator) correct(ctx context.Context, runID string, track tracks.Track, events []subtitles.Event) (string, correction.RunResult, error) {
	text, err := renderSRT(events)
	if err != nil {
		return "", correction.RunResult{}, err
	}
	if !c.cfg.Correction.Enabled {
		return text, correction.RunResult{Text: text}, nil
	}
	if err := ctx.Err(); err != nil {
		return "", correction.RunResult{}, err
	}
	c.emit(Event{RunID: runID, State: StateCorrecting, Track: track, Message: "correcting text"})

	if !c.cfg.Correction.MultiPass {
		single := c.engine.CorrectSRT(text)
		return single.Text, correction.RunResult{
			Text:            single.Text,
			PassesCompleted: 1,
			Substitutions:   single.Substitutions,
			ByCategory:      single.ByCategory,
		}, nil
	}

	mode, err := correction.ParseMode(c.cfg.Correction.Mode)
	if err != nil {
		return "", correction.RunResult{}, err
	}
	runRes, err := c.engine.Run(ctx, text, mode)
	if err != nil {
		return "", runRes, err
	}
	if runRes.Warning != "" {
		c.logger.Warn("multi-pass correction degraded to a single pass",
			logging.FieldComponent, "pipeline",
			logging.FieldRunID, runID,
			"warning", runRes.Warning)
		// The fallback result replaces the abandoned attempt wholesale so
		// the reported stats always describe the text that gets written.
		warning := runRes.Warning
		runRes, err = c.engine.Run(ctx, text, correction.ModeFast)
		if err != nil {
			return "", runRes, err
		}
		if runRes.Warning == "" {
			runRes.Warning = warning
		}
	}
	return runRes.Text, runRes, nil
}

func (c *Coordinator) outputPath(containerPath string, track tracks.Track) (string, error) {
	outDir := c.cfg.Paths.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(containerPath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	name := c.pattern.RenderUnique(containerPath, track, func(candidate string) bool {
		_, statErr := os.Stat(filepath.Join(outDir, candidate))
		return statErr == nil
	})
	return filepath.Join(outDir, name), nil
}

// removeIntermediate deletes a scratch artifact with bounded retries. Failure
// to delete is logged, never escalated.
func (c *Coordinator) removeIntermediate(path string) {
	if err := fileutil.RemoveWithRetry(context.Background(), path, fileutil.DefaultRemovePolicy); err != nil {
		c.logger.Warn("could not remove intermediate file",
			logging.FieldComponent, "pipeline",
			"path", path,
			"error", err)
	}
}

func (c *Coordinator) emit(event Event) {
	if c.onEvent != nil {
		c.onEvent(event)
	}
}

func convertFile(path string, convert func(string) ([]subtitles.Event, error)) ([]subtitles.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	events, err := convert(string(data))
	if err != nil {
		return nil, err
	}
	subtitles.SortByStart(events)
	return events, nil
}

func renderSRT(events []subtitles.Event) (string, error) {
	subtitles.SortByStart(events)
	var buf bytes.Buffer
	if err := subtitles.Write(&buf, events); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// writeTextAtomic writes via a sibling temp file and rename so a cancelled
// or crashed run never leaves a partially written subtitle file behind.
func writeTextAtomic(path, text string) error {
	if err := fileutil.EnsureParentDir(path); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".srtextractor-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
