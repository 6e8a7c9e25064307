package main

import (
	"github.com/spf13/cobra"

	"github.com/xuanyiying/molt/internal/molt/batch"
	"github.com/xuanyiying/molt/internal/molt/config"
	"github.com/xuanyiying/molt/internal/molt/rules"
)

// loadConfig reads the rule-pipeline config file named by --config.
func loadConfig() (*config.Config, error) {
	return config.NewManager(configPath).Load()
}

func ruleSpecs(cfg *config.Config) []rules.Spec {
	specs := make([]rules.Spec, len(cfg.Rules))
	for i, r := range cfg.Rules {
		specs[i] = rules.Spec{Name: r.Name, Params: r.Params}
	}
	return specs
}

// resolveOptions layers CLI flags over the config file's defaults: a flag
// the user actually passed on the command line wins, otherwise the config
// file's value (itself defaulted by config.Manager) stands.
func resolveOptions(cmd *cobra.Command, cfg *config.Config) batch.Options {
	opts := batch.Options{
		ContinueOnError: cfg.Options.ContinueOnError,
		DryRun:          cfg.Options.DryRun,
		OnlyRules:       cfg.Options.OnlyRules,
		ProcessFullname: cfg.Options.ProcessFullname,
		AllowPath:       cfg.Options.AllowPath,
		OutputFullname:  cfg.Options.OutputFullname,
		OutputMode:      cfg.Options.OutputMode,
		Verbose:         cfg.Options.Verbose,
	}

	flags := cmd.Flags()
	if flags.Changed("continue-on-error") {
		opts.ContinueOnError = continueOnError
	}
	if flags.Changed("dry-run") {
		opts.DryRun = dryRun
	}
	if flags.Changed("only-rules") {
		opts.OnlyRules = onlyRules
	}
	if flags.Changed("process-fullname") {
		opts.ProcessFullname = processFullname
	}
	if flags.Changed("allow-path") {
		opts.AllowPath = allowPath
	}
	if flags.Changed("output-fullname") {
		opts.OutputFullname = outputFullname
	}
	if flags.Changed("output-mode") {
		opts.OutputMode = outputMode
	}
	if flags.Changed("verbose") {
		opts.Verbose = verbose
	}
	return opts.Normalize()
}
