package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML game configuration. Environment
// variables override file values so venue setups can tweak a single
// knob without editing the file.
type Config struct {
	Game struct {
		TimerDurationSec int `yaml:"timer_duration_sec"`
		StartingBalance  int `yaml:"starting_balance"`
	} `yaml:"game"`
	Leaderboard struct {
		FilePath string `yaml:"file_path"`
	} `yaml:"leaderboard"`
}

func defaultConfig() *Config {
	var config Config
	config.Game.TimerDurationSec = 60
	config.Game.StartingBalance = 1000
	config.Leaderboard.FilePath = "leaderboard.json"
	return &config
}

func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.Game.TimerDurationSec = getEnvAsInt("TIMER_DURATION_SEC", config.Game.TimerDurationSec)
	config.Game.StartingBalance = getEnvAsInt("STARTING_BALANCE", config.Game.StartingBalance)
	config.Leaderboard.FilePath = getEnv("LEADERBOARD_FILE", config.Leaderboard.FilePath)

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.Game.TimerDurationSec <= 0 {
		return fmt.Errorf("timer_duration_sec must be positive, got %d", c.Game.TimerDurationSec)
	}
	if c.Game.StartingBalance <= 0 || c.Game.StartingBalance%100 != 0 {
		return fmt.Errorf("starting_balance must be a positive multiple of 100, got %d", c.Game.StartingBalance)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
