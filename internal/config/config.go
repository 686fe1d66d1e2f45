// Package config loads game tuning from a JSON file, falling back to
// defaults when no file is given.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	MinPlayers          int  `json:"min_players"`
	MaxPlayers          int  `json:"max_players"`
	UseJokers           bool `json:"use_jokers"`
	TurnDurationSeconds int  `json:"turn_duration_seconds"`
	BotStepDelayMs      int  `json:"bot_step_delay_ms"`
}

func Default() *Config {
	return &Config{
		MinPlayers:          3,
		MaxPlayers:          5,
		UseJokers:           true,
		TurnDurationSeconds: 30,
		BotStepDelayMs:      400,
	}
}

// Load reads a JSON config file over the defaults, so partial files
// only override what they mention.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MinPlayers < 3 {
		return fmt.Errorf("min_players %d below 3", c.MinPlayers)
	}
	if c.MaxPlayers > 5 {
		return fmt.Errorf("max_players %d above 5", c.MaxPlayers)
	}
	if c.MinPlayers > c.MaxPlayers {
		return fmt.Errorf("min_players %d above max_players %d", c.MinPlayers, c.MaxPlayers)
	}
	return nil
}
