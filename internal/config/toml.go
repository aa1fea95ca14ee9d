// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Quiz    QuizConfig    `toml:"quiz"`
	Stamina StaminaConfig `toml:"stamina"`
	Tiers   []TierConfig  `toml:"tiers"`
	Store   StoreConfig   `toml:"store"`
	Log     LogConfig     `toml:"log"`
}

// QuizConfig maps question and scoring settings.
type QuizConfig struct {
	Dataset          []string `toml:"dataset"`
	Topic            *string  `toml:"topic"`
	XPPerCorrect     *int     `toml:"xp-per-correct"`
	XPTierMultiplier *bool    `toml:"xp-tier-multiplier"`
}

// StaminaConfig maps stamina settings.
type StaminaConfig struct {
	Max          *int `toml:"max"`
	RegenMinutes *int `toml:"regen-minutes"`
}

// TierConfig is one tier's advancement threshold.
type TierConfig struct {
	Target int `toml:"target"`
	Streak int `toml:"streak"`
}

// StoreConfig selects the sheet backend.
type StoreConfig struct {
	Driver *string `toml:"driver"`
	Path   *string `toml:"path"`
	DSN    *string `toml:"dsn"`
	Table  *string `toml:"table"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

func (c FileConfig) validate() error {
	for i, tier := range c.Tiers {
		if tier.Target <= 0 {
			return fmt.Errorf("tiers[%d].target must be > 0", i)
		}
		if tier.Streak < 0 {
			return fmt.Errorf("tiers[%d].streak must be >= 0", i)
		}
	}
	if c.Quiz.XPPerCorrect != nil && *c.Quiz.XPPerCorrect < 0 {
		return fmt.Errorf("quiz.xp-per-correct must be >= 0")
	}
	if c.Stamina.Max != nil && *c.Stamina.Max <= 0 {
		return fmt.Errorf("stamina.max must be > 0")
	}
	if c.Stamina.RegenMinutes != nil && *c.Stamina.RegenMinutes <= 0 {
		return fmt.Errorf("stamina.regen-minutes must be > 0")
	}
	return nil
}
