package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/xuanyiying/molt/internal/molt/batch"
	"github.com/xuanyiying/molt/pkg/molterrors"
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Plan and execute the rule pipeline over a batch of files",
	Long: `run derives a candidate new name for each input through the configured
rule pipeline, computes a conflict-free execution plan, and performs the
renames unless --dry-run is set. Pass "-" as the only path to read one path
per line from stdin instead of argv.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts := resolveOptions(cmd, cfg)
		code, hadErrors := batch.Run(args, ruleSpecs(cfg), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if exit := molterrors.ExitCode(hadErrors, code); exit != 0 {
			os.Exit(exit)
		}
		return nil
	},
}
