// Command molt is a batch file-renaming engine: given a set of input
// paths and a configured rule pipeline, it derives a candidate new name
// per input, computes a conflict-free execution plan, and (unless asked
// only to plan) executes it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xuanyiying/molt/internal/molt/config"
)

var (
	configPath      string
	continueOnError bool
	dryRun          bool
	onlyRules       bool
	processFullname bool
	allowPath       bool
	outputFullname  bool
	outputMode      string
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:   "molt",
	Short: "Batch file renaming with conflict-free planning",
	Long: `molt renames a batch of files through a configured pipeline of
name transforms, computing a conflict-free plan before touching disk and
staging cyclic swaps through temporary names where needed.

Use 'molt run <paths...>' to rename, 'molt plan <paths...>' to preview,
and 'molt watch <dir>' to re-run the pipeline as new files arrive.`,
}

// Execute adds every subcommand to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	homeDir, _ := os.UserHomeDir()
	defaultConfigPath := homeDir + "/.moltrc.yaml"

	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Path to the rule-pipeline config file")
	rootCmd.PersistentFlags().BoolVar(&continueOnError, "continue-on-error", false, "Keep renaming past a conflict instead of skipping pass 1 entirely")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Compute and print the plan without renaming anything")
	rootCmd.PersistentFlags().BoolVar(&onlyRules, "only-rules", false, "Skip conflict detection entirely and print raw rule output per input (implies --dry-run)")
	rootCmd.PersistentFlags().BoolVar(&processFullname, "process-fullname", false, "Feed the rule pipeline the full canonical path instead of just the basename")
	rootCmd.PersistentFlags().BoolVar(&allowPath, "allow-path", false, "Allow a rule's candidate name to contain a path separator")
	rootCmd.PersistentFlags().BoolVar(&outputFullname, "output-fullname", false, "Print full canonical paths instead of paths relative to the working directory")
	rootCmd.PersistentFlags().StringVar(&outputMode, "output-mode", "", "Report line format: standard, new-names, or both-names (overrides the config file)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Trace every planner cascade step (orphan, try-resolve-fs, promotion to conflict)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(watchCmd)
}
