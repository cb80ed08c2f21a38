package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/batch"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/logging"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/tracks"
)

// FileOutcome summarizes one container processed end to end.
type FileOutcome struct {
	Outputs  []string
	Tracks   int
	Rejected int
	Errors   []string
}

// ProcessFile probes a container and extracts every supported subtitle
// track. Rejected families are skipped, a single track's failure does not
// stop the remaining tracks, and cancellation stops immediately. The call
// fails when the container has no subtitle tracks or when every supported
// track failed.
func (c *Coordinator) ProcessFile(ctx context.Context, containerPath string) (FileOutcome, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return FileOutcome{}, services.Wrap(services.ErrValidation, "pipeline", "process_file",
			"another extraction is already running", nil)
	}
	defer c.busy.Store(false)

	var outcome FileOutcome

	probed, err := c.toolkit.Probe(ctx, containerPath)
	if err != nil {
		return outcome, err
	}
	if len(probed) == 0 {
		return outcome, services.Wrap(services.ErrValidation, "pipeline", "process_file",
			fmt.Sprintf("no subtitle tracks in %s", containerPath), nil)
	}

	attempted := 0
	for _, track := range probed {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}
		if !supported(track.Family) {
			outcome.Rejected++
			c.logger.Info("skipping unsupported track",
				logging.FieldComponent, "pipeline",
				logging.FieldTrack, track.DisplayID,
				"codec", track.CodecTag)
			continue
		}
		attempted++
		res, err := c.extract(ctx, containerPath, track)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return outcome, err
			}
			outcome.Errors = append(outcome.Errors,
				fmt.Sprintf("track %d: %v", track.DisplayID, err))
			continue
		}
		outcome.Tracks++
		outcome.Outputs = append(outcome.Outputs, res.OutputPath)
	}

	if attempted == 0 {
		return outcome, services.Wrap(services.ErrUnsupportedCodec, "pipeline", "process_file",
			fmt.Sprintf("none of the %d subtitle tracks in %s can be extracted", len(probed), containerPath), nil)
	}
	if outcome.Tracks == 0 {
		return outcome, services.Wrap(services.ErrExternalTool, "pipeline", "process_file",
			"all tracks failed: "+strings.Join(outcome.Errors, "; "), nil)
	}
	return outcome, nil
}

func supported(family tracks.CodecFamily) bool {
	switch family {
	case tracks.FamilyTextSrt, tracks.FamilyTextAss, tracks.FamilyTextWebVtt,
		tracks.FamilyTextGeneric, tracks.FamilyImagePgs:
		return true
	default:
		return false
	}
}

// BatchProcessor adapts the coordinator to the batch manager's contract.
type BatchProcessor struct {
	coordinator *Coordinator
}

// NewBatchProcessor wraps a coordinator for batch use.
func NewBatchProcessor(coordinator *Coordinator) *BatchProcessor {
	return &BatchProcessor{coordinator: coordinator}
}

// Process implements batch.Processor.
func (p *BatchProcessor) Process(ctx context.Context, sourcePath string) (batch.Outcome, error) {
	outcome, err := p.coordinator.ProcessFile(ctx, sourcePath)
	if err != nil {
		return batch.Outcome{}, err
	}
	return batch.Outcome{Outputs: outcome.Outputs, Tracks: outcome.Tracks}, nil
}
