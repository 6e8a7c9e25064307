package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/xuanyiying/molt/internal/molt/batch"
	"github.com/xuanyiying/molt/pkg/molterrors"
)

var planCmd = &cobra.Command{
	Use:   "plan [paths...]",
	Short: "Print the conflict-free plan without renaming anything",
	Long: `plan runs the same rule pipeline and planner as run, but never performs a
rename regardless of --dry-run — it always previews. Use this to inspect
how a batch would be classified (one-step, two-step, conflict, fs-conflict)
before committing to run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts := resolveOptions(cmd, cfg)
		opts.DryRun = true
		code, hadErrors := batch.Run(args, ruleSpecs(cfg), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if exit := molterrors.ExitCode(hadErrors, code); exit != 0 {
			os.Exit(exit)
		}
		return nil
	},
}
