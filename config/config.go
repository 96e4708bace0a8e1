// Package config loads fitsplits defaults from FITSPLITS_* environment variables.
package config

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"

	fitsplits "github.com/lucasjlepore/fit-splits"
)

const envPrefix = "FITSPLITS"

// Config holds the defaults a CLI invocation starts from.
type Config struct {
	SplitDistance string `mapstructure:"SPLIT_DISTANCE"`
	Format        string `mapstructure:"FORMAT"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
}

// Load reads FITSPLITS_SPLIT_DISTANCE, FITSPLITS_FORMAT and FITSPLITS_LOG_LEVEL
// over the built-in defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault("SPLIT_DISTANCE", "1000")
	v.SetDefault("FORMAT", "json")
	v.SetDefault("LOG_LEVEL", "warn")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// SplitMeters resolves SplitDistance, which may be a number of meters or a preset name.
func (c Config) SplitMeters() (float64, error) {
	return fitsplits.ParseSplitDistance(c.SplitDistance)
}

// Level maps LogLevel to an hclog level, falling back to warn.
func (c Config) Level() hclog.Level {
	level := hclog.LevelFromString(c.LogLevel)
	if level == hclog.NoLevel {
		return hclog.Warn
	}
	return level
}
