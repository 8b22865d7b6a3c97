// Package config loads docsift settings from viper.
package config

import (
	"fmt"
	"time"

	"github.com/Veraticus/docsift/internal/common"
	"github.com/spf13/viper"
)

// Config holds the engine and CLI settings.
type Config struct {
	PatternsDir    string
	SchemasDir     string
	ModelPath      string
	JournalPath    string
	LogLevel       string
	LogFormat      string
	ModelThreshold float64
	RuleThreshold  float64
	RuleTimeout    time.Duration
	RuleCostLimit  uint64
	JournalEnabled bool
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("patterns.dir", "./patterns")
	v.SetDefault("schemas.dir", "./schemas")
	v.SetDefault("model.path", "")
	v.SetDefault("classification.model_threshold", 0.7)
	v.SetDefault("classification.rule_threshold", 0.6)
	v.SetDefault("rules.timeout", "250ms")
	v.SetDefault("rules.cost_limit", 100000)
	v.SetDefault("journal.path", "$HOME/.local/share/docsift/docsift.db")
	v.SetDefault("journal.enabled", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the configuration from v. Defaults are applied for unset keys.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		PatternsDir:    ExpandPath(v.GetString("patterns.dir")),
		SchemasDir:     ExpandPath(v.GetString("schemas.dir")),
		ModelPath:      ExpandPath(v.GetString("model.path")),
		JournalPath:    ExpandPath(v.GetString("journal.path")),
		JournalEnabled: v.GetBool("journal.enabled"),
		ModelThreshold: v.GetFloat64("classification.model_threshold"),
		RuleThreshold:  v.GetFloat64("classification.rule_threshold"),
		RuleTimeout:    v.GetDuration("rules.timeout"),
		RuleCostLimit:  v.GetUint64("rules.cost_limit"),
		LogLevel:       v.GetString("logging.level"),
		LogFormat:      v.GetString("logging.format"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that thresholds and bounds are usable.
func (c Config) Validate() error {
	if c.ModelThreshold < 0 || c.ModelThreshold > 1 {
		return fmt.Errorf("%w: classification.model_threshold must be between 0 and 1", common.ErrInvalidConfig)
	}
	if c.RuleThreshold < 0 || c.RuleThreshold > 1 {
		return fmt.Errorf("%w: classification.rule_threshold must be between 0 and 1", common.ErrInvalidConfig)
	}
	if c.RuleTimeout <= 0 {
		return fmt.Errorf("%w: rules.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.RuleCostLimit == 0 {
		return fmt.Errorf("%w: rules.cost_limit must be positive", common.ErrInvalidConfig)
	}
	if c.JournalEnabled && c.JournalPath == "" {
		return fmt.Errorf("%w: journal.path", common.ErrMissingConfig)
	}
	return nil
}
