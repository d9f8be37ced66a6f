package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/zostay/go-email-codec/internal/batch"
)

var (
	workers    int
	noProgress bool
	noCheck    bool
)

var batchCmd = &cobra.Command{
	Use:   "batch path...",
	Short: "Analyzes every message in the given files, directories and mbox files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  RunBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of parallel workers, 0 for one per CPU")
	batchCmd.Flags().BoolVar(&noProgress, "no-progress", false, "do not show a progress bar")
	batchCmd.Flags().BoolVar(&noCheck, "no-check", false, "skip the comparison with go-message")
	rootCmd.AddCommand(batchCmd)
}

func RunBatch(cmd *cobra.Command, args []string) error {
	jobs, err := batch.Collect(args...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := batch.Options{
		Workers: workers,
		Logger:  logger,
		Check:   !noCheck,
		Analyze: analyzeOptions(),
	}
	if !noProgress {
		opts.Progress = cmd.ErrOrStderr()
	}

	outcomes := batch.Run(ctx, jobs, opts)

	out := cmd.OutOrStdout()
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			fmt.Fprintf(out, "FAIL %s: %v\n", o.Job.Name(), o.Err)
		case len(o.Diffs) > 0:
			fmt.Fprintf(out, "DIFF %s\n", o.Job.Name())
			for _, d := range o.Diffs {
				fmt.Fprintf(out, "     %s\n", d)
			}
		}
	}

	failed, disagreed := batch.Totals(outcomes)
	fmt.Fprintf(out, "%d messages, %d failed, %d disagree\n", len(outcomes), failed, disagreed)

	if failed > 0 || disagreed > 0 {
		return fmt.Errorf("%d messages had problems", failed+disagreed)
	}
	return nil
}
