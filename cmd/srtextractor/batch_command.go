package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/batch"
	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/pipeline"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Process many containers in one run",
	}

	batchCmd.AddCommand(newBatchRunCommand(ctx))
	batchCmd.AddCommand(newBatchStatusCommand(ctx))
	batchCmd.AddCommand(newBatchClearCommand(ctx))
	return batchCmd
}

func (c *commandContext) openBatchStore(dbFlag string) (*batch.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	path := strings.TrimSpace(dbFlag)
	if path == "" {
		path = filepath.Join(cfg.Paths.LogDir, "batch.db")
	}
	return batch.Open(path)
}

func newBatchRunCommand(ctx *commandContext) *cobra.Command {
	var (
		dbPath string
		resume bool
	)

	cmd := &cobra.Command{
		Use:   "run [containers...]",
		Short: "Extract subtitles from each queued container in order",
		Long: `Queue the given containers and process them one at a time. A failing
file is recorded and the run continues with the next one.

With --resume the previous run's database is kept: finished items are
skipped and processing restarts at the first unprocessed file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !resume {
				return fmt.Errorf("nothing to do: pass container paths or --resume")
			}

			runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			lock, err := ctx.acquireRunLock()
			if err != nil {
				return err
			}
			defer func() { _ = lock.Unlock() }()

			store, err := ctx.openBatchStore(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if !resume {
				if _, err := store.Clear(runCtx); err != nil {
					return err
				}
			}
			for _, arg := range args {
				abs, err := filepath.Abs(arg)
				if err != nil {
					return err
				}
				if _, err := store.Add(runCtx, abs); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			coord, err := ctx.buildCoordinator()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			manager := batch.NewManager(store, pipeline.NewBatchProcessor(coord),
				batch.WithLogger(logger),
				batch.WithItemCallback(func(item *batch.Item) {
					switch item.Status {
					case batch.StatusCompleted:
						fmt.Fprintf(out, "done  %s (%d track(s))\n", item.SourcePath, item.TracksExtracted)
					case batch.StatusCancelled:
						fmt.Fprintf(out, "stop  %s\n", item.SourcePath)
					default:
						fmt.Fprintf(out, "fail  %s: %s\n", item.SourcePath, item.ErrorMessage)
					}
				}))

			summary, runErr := manager.Run(runCtx)
			fmt.Fprintf(out, "\n%d file(s): %d completed, %d failed, %d cancelled, %d pending\n",
				summary.Total, summary.Completed, summary.Failed, summary.Cancelled, summary.Pending)
			if runErr != nil && runCtx.Err() != nil {
				fmt.Fprintln(out, "Run interrupted; rerun with --resume to continue")
				return nil
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Batch database path (defaults to the log directory)")
	cmd.Flags().BoolVar(&resume, "resume", false, "Continue the previous run instead of starting fresh")
	return cmd
}

func newBatchStatusCommand(ctx *commandContext) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the current batch database",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openBatchStore(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			items, err := store.List(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Batch database is empty")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				size := ""
				if item.SizeBytes > 0 {
					size = humanize.Bytes(uint64(item.SizeBytes))
				}
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					string(item.Status),
					strconv.Itoa(item.TracksExtracted),
					size,
					item.SourcePath,
					item.ErrorMessage,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Status", "Tracks", "Size", "Source", "Error"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Batch database path (defaults to the log directory)")
	return cmd
}

func newBatchClearCommand(ctx *commandContext) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all items from the batch database",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openBatchStore(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			removed, err := store.Clear(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d item(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Batch database path (defaults to the log directory)")
	return cmd
}
