package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/tracks"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <container>",
		Short: "List subtitle tracks in a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			toolkit, err := ctx.buildToolkit()
			if err != nil {
				return err
			}
			probed, err := toolkit.Probe(runCtx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(probed) == 0 {
				fmt.Fprintln(out, "No subtitle tracks found")
				return nil
			}

			classifier := tracks.DefaultClassifier()
			rows := make([][]string, 0, len(probed))
			for _, track := range probed {
				rows = append(rows, []string{
					strconv.Itoa(track.DisplayID),
					track.CodecTag,
					track.Family.String(),
					track.Language,
					classifier.Classify(track).String(),
					yesNo(track.ClosedCap),
					track.Name,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Track", "Codec", "Family", "Lang", "Kind", "CC", "Name"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d subtitle track(s)\n", len(probed))
			return nil
		},
	}
}
