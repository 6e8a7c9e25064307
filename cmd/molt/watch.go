package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xuanyiying/molt/internal/molt/batch"
	"github.com/xuanyiying/molt/internal/molt/watch"
	"github.com/xuanyiying/molt/pkg/molterrors"
)

var watchGlob string

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-run the rule pipeline whenever a new matching file appears in dir",
	Long: `watch re-invokes the same rule pipeline, planner and executor used by
run once per file created in dir whose basename matches --glob. Each
triggered batch still runs through the single sequential plan/execute
cycle — watch only supplies new input lists over time, it introduces no
concurrency within a cycle.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts := resolveOptions(cmd, cfg)

		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		specs := ruleSpecs(cfg)
		dispatch := func(paths []string) error {
			code, hadErrors := batch.Run(paths, specs, opts, cmd.InOrStdin(), out, errOut)
			if exit := molterrors.ExitCode(hadErrors, code); exit != 0 {
				fmt.Fprintf(errOut, "batch exited %d\n", exit)
			}
			return nil
		}

		w, err := watch.New(dir, watchGlob, dispatch)
		if err != nil {
			return err
		}
		defer w.Close()

		fmt.Fprintf(errOut, "watching %s for files matching %q (ctrl-c to stop)\n", dir, watchGlob)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := w.Run(ctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchGlob, "glob", "*", "Basename glob a newly created file must match to trigger a batch")
}
