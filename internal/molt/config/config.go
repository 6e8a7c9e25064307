// Package config loads the rule-pipeline definition and default planner
// options from a YAML file, the way the teacher's own config manager
// loads a cleanup strategy.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// RuleSpec is one step of the configured rule pipeline: a registered
// rule name plus its Init parameters, read straight off the YAML file.
type RuleSpec struct {
	Name   string   `yaml:"name" mapstructure:"name"`
	Params []string `yaml:"params" mapstructure:"params"`
}

// Options mirrors the planner-visible knobs from spec.md §6 that a config
// file may set as defaults, overridable by CLI flags.
type Options struct {
	ContinueOnError bool   `yaml:"continueOnError" mapstructure:"continueOnError"`
	DryRun          bool   `yaml:"dryRun" mapstructure:"dryRun"`
	OnlyRules       bool   `yaml:"onlyRules" mapstructure:"onlyRules"`
	ProcessFullname bool   `yaml:"processFullname" mapstructure:"processFullname"`
	AllowPath       bool   `yaml:"allowPath" mapstructure:"allowPath"`
	OutputFullname  bool   `yaml:"outputFullname" mapstructure:"outputFullname"`
	OutputMode      string `yaml:"outputMode" mapstructure:"outputMode"`
	Verbose         bool   `yaml:"verbose" mapstructure:"verbose"`
}

// Config is the whole rule-pipeline configuration file.
type Config struct {
	Rules   []RuleSpec `yaml:"rules" mapstructure:"rules"`
	Options Options    `yaml:"options" mapstructure:"options"`
}

// Manager loads a Config from a YAML file via viper, falling back to
// defaults when the file does not exist.
type Manager struct {
	v    *viper.Viper
	path string
}

// NewManager builds a Manager that will read path on Load.
func NewManager(path string) *Manager {
	return &Manager{v: viper.New(), path: path}
}

// Load reads m.path if present, merges it over the defaults, and
// validates the result: a rule pipeline may contain at most one
// stdin-names step (spec.md §6).
func (m *Manager) Load() (*Config, error) {
	m.setDefaults()

	if _, err := os.Stat(m.path); err == nil {
		m.v.SetConfigFile(m.path)
		m.v.SetConfigType("yaml")
		if err := m.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", m.path, err)
		}
	}

	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	stdinCount := 0
	for _, r := range cfg.Rules {
		if r.Name == "stdin-names" {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return fmt.Errorf("config: at most one stdin-names rule is allowed per run, found %d", stdinCount)
	}
	switch cfg.Options.OutputMode {
	case "standard", "new-names", "both-names":
	default:
		return fmt.Errorf("config: unknown outputMode %q", cfg.Options.OutputMode)
	}
	return nil
}

func (m *Manager) setDefaults() {
	m.v.SetDefault("rules", []RuleSpec{})
	m.v.SetDefault("options.continueOnError", false)
	m.v.SetDefault("options.dryRun", false)
	m.v.SetDefault("options.onlyRules", false)
	m.v.SetDefault("options.processFullname", false)
	m.v.SetDefault("options.allowPath", false)
	m.v.SetDefault("options.outputFullname", false)
	m.v.SetDefault("options.outputMode", "standard")
	m.v.SetDefault("options.verbose", false)
}
