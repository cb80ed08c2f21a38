package mkvtoolnix

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/fileutil"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/services"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/tracks"
)

// Toolkit defines the container operations the pipeline coordinator needs.
type Toolkit interface {
	// Probe enumerates subtitle tracks in the container.
	Probe(ctx context.Context, containerPath string) ([]tracks.Track, error)
	// ExtractTrack pulls one track to outputPath. The output format follows
	// the path extension (mkvextract converts text codecs to SRT for .srt,
	// and writes raw PGS for .sup).
	ExtractTrack(ctx context.Context, containerPath string, extractID int, outputPath string) error
}

// TimeoutPolicy scales extraction timeouts with container size: a base
// allowance plus a linear-in-size component, capped at Max. A multi-gigabyte
// remux and a small film have wildly different legitimate durations.
type TimeoutPolicy struct {
	Base   time.Duration
	PerGiB time.Duration
	Max    time.Duration
}

// Compute returns the timeout for a container of the given size.
func (p TimeoutPolicy) Compute(sizeBytes int64) time.Duration {
	timeout := p.Base
	if p.PerGiB > 0 && sizeBytes > 0 {
		gib := float64(sizeBytes) / (1 << 30)
		timeout += time.Duration(gib * float64(p.PerGiB))
	}
	if p.Max > 0 && timeout > p.Max {
		timeout = p.Max
	}
	return timeout
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

// WithTimeoutPolicy overrides the extraction timeout scaling.
func WithTimeoutPolicy(policy TimeoutPolicy) Option {
	return func(c *Client) {
		c.timeouts = policy
	}
}

// Client wraps mkvmerge/mkvextract CLI interactions.
type Client struct {
	mkvmerge   string
	mkvextract string
	timeouts   TimeoutPolicy
	exec       services.Executor
}

const defaultProbeTimeout = 2 * time.Minute

// New constructs a toolkit client.
func New(mkvmerge, mkvextract string, opts ...Option) (*Client, error) {
	mkvmerge = strings.TrimSpace(mkvmerge)
	mkvextract = strings.TrimSpace(mkvextract)
	if mkvmerge == "" || mkvextract == "" {
		return nil, errors.New("mkvmerge and mkvextract binaries required")
	}
	client := &Client{
		mkvmerge:   mkvmerge,
		mkvextract: mkvextract,
		timeouts: TimeoutPolicy{
			Base:   2 * time.Minute,
			PerGiB: time.Minute,
			Max:    4 * time.Hour,
		},
		exec: services.ProcessExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Probe runs mkvmerge identification and returns the subtitle tracks.
func (c *Client) Probe(ctx context.Context, containerPath string) ([]tracks.Track, error) {
	result, err := c.exec.Run(ctx, services.Command{
		Binary:  c.mkvmerge,
		Args:    []string{"-J", containerPath},
		Timeout: defaultProbeTimeout,
	})
	if err != nil {
		return nil, classifyRunError(err, "probe", c.mkvmerge)
	}
	if result.ExitCode != 0 {
		return nil, services.Wrap(services.ErrExternalTool, "probe", "mkvmerge",
			fmt.Sprintf("exit code %d: %s", result.ExitCode, stderrTail(result)), nil)
	}
	probed, err := parseIdentification(result.Stdout)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "probe", "parse mkvmerge output", "", err)
	}
	return probed, nil
}

// ExtractTrack runs mkvextract with a track selector of the form
// "<extractID>:<outputPath>". Success requires a zero exit code and the
// output file existing.
func (c *Client) ExtractTrack(ctx context.Context, containerPath string, extractID int, outputPath string) error {
	if err := fileutil.EnsureParentDir(outputPath); err != nil {
		return fmt.Errorf("prepare output directory: %w", err)
	}
	timeout := c.timeouts.Compute(fileutil.FileSize(containerPath))
	selector := strconv.Itoa(extractID) + ":" + outputPath

	result, err := c.exec.Run(ctx, services.Command{
		Binary:  c.mkvextract,
		Args:    []string{containerPath, "tracks", selector},
		Timeout: timeout,
	})
	if err != nil {
		return classifyRunError(err, "extract", c.mkvextract)
	}
	if result.ExitCode != 0 {
		return services.Wrap(services.ErrExternalTool, "extract", "mkvextract",
			fmt.Sprintf("track %d: exit code %d: %s", extractID, result.ExitCode, stderrTail(result)), nil)
	}
	if _, statErr := os.Stat(outputPath); statErr != nil {
		return services.Wrap(services.ErrExternalTool, "extract", "mkvextract",
			fmt.Sprintf("track %d: tool reported success but produced no output", extractID), statErr)
	}
	return nil
}

func classifyRunError(err error, stage, binary string) error {
	switch {
	case errors.Is(err, services.ErrToolNotFound):
		return services.Wrap(services.ErrToolNotFound, stage, binary, "", err)
	case errors.Is(err, services.ErrTimeout):
		return services.Wrap(services.ErrTimeout, stage, binary, "", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return services.Wrap(services.ErrExternalTool, stage, binary, "", err)
	}
}

func stderrTail(result services.Result) string {
	text := strings.TrimSpace(string(result.Stderr))
	if text == "" {
		text = strings.TrimSpace(string(result.Stdout))
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}
