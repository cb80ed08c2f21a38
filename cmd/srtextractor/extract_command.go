package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/pipeline"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var (
		trackID          int
		keepIntermediate bool
		noCorrection     bool
		mode             string
	)

	cmd := &cobra.Command{
		Use:   "extract <container>",
		Short: "Extract subtitle tracks to SRT files",
		Long: `Extract subtitle tracks from a container to SRT files.

Text tracks are converted directly; PGS image tracks are recognized with
tesseract frame by frame. Without --track every supported track is
extracted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if keepIntermediate {
				cfg.Extraction.KeepIntermediate = true
			}
			if noCorrection {
				cfg.Correction.Enabled = false
			}
			if strings.TrimSpace(mode) != "" {
				cfg.Correction.Mode = mode
			}

			lock, err := ctx.acquireRunLock()
			if err != nil {
				return err
			}
			defer func() { _ = lock.Unlock() }()

			out := cmd.OutOrStdout()
			var bar *progressbar.ProgressBar
			coord, err := ctx.buildCoordinator(pipeline.WithEventSink(func(e pipeline.Event) {
				if e.FramesTotal > 0 {
					if bar == nil {
						bar = progressbar.NewOptions(e.FramesTotal,
							progressbar.OptionSetDescription("recognizing"),
							progressbar.OptionSetWriter(cmd.ErrOrStderr()),
							progressbar.OptionShowCount())
					}
					_ = bar.Set(e.FramesDone)
					return
				}
				if e.Message != "" && e.State != pipeline.StateDone {
					fmt.Fprintf(out, "[%s] %s\n", e.State, e.Message)
				}
			}))
			if err != nil {
				return err
			}

			finishBar := func() {
				if bar != nil {
					_ = bar.Finish()
					fmt.Fprintln(cmd.ErrOrStderr())
					bar = nil
				}
			}

			if trackID > 0 {
				probed, err := coord.Probe(runCtx, args[0])
				if err != nil {
					return err
				}
				for _, track := range probed {
					if track.DisplayID != trackID {
						continue
					}
					res, err := coord.Extract(runCtx, args[0], track)
					finishBar()
					if err != nil {
						return err
					}
					printResult(out, res)
					return nil
				}
				return fmt.Errorf("track %d not found in %s", trackID, args[0])
			}

			outcome, err := coord.ProcessFile(runCtx, args[0])
			finishBar()
			if err != nil {
				return err
			}
			for _, output := range outcome.Outputs {
				fmt.Fprintf(out, "Wrote %s\n", output)
			}
			if outcome.Rejected > 0 {
				fmt.Fprintf(out, "Skipped %d unsupported track(s)\n", outcome.Rejected)
			}
			for _, msg := range outcome.Errors {
				fmt.Fprintf(out, "Failed: %s\n", msg)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&trackID, "track", "t", 0, "Extract only this track number")
	cmd.Flags().BoolVar(&keepIntermediate, "keep-intermediate", false, "Keep the raw .sup container after image-track extraction")
	cmd.Flags().BoolVar(&noCorrection, "no-correction", false, "Skip OCR text correction")
	cmd.Flags().StringVar(&mode, "mode", "", "Correction mode: fast, standard, or thorough")
	return cmd
}

func printResult(out io.Writer, res pipeline.Result) {
	fmt.Fprintf(out, "Wrote %s (%d events", res.OutputPath, res.Events)
	if res.Correction.PassesCompleted > 0 {
		fmt.Fprintf(out, ", %d corrections in %d pass(es)",
			res.Correction.Substitutions, res.Correction.PassesCompleted)
	}
	fmt.Fprintln(out, ")")
	if len(res.Correction.ByCategory) > 0 {
		categories := make([]string, 0, len(res.Correction.ByCategory))
		for category := range res.Correction.ByCategory {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		parts := make([]string, 0, len(categories))
		for _, category := range categories {
			parts = append(parts, fmt.Sprintf("%s %d", category, res.Correction.ByCategory[category]))
		}
		fmt.Fprintf(out, "  corrections: %s\n", strings.Join(parts, ", "))
	}
}
