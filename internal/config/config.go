package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"whenbot/internal/types"
)

// DefaultPath is where Load looks for a config file when none is given.
const DefaultPath = "whenbot.yaml"

// Config holds everything the bot needs at startup. Environment variables
// override file values; the file is optional.
type Config struct {
	Token       string `yaml:"token"`
	AppID       string `yaml:"app_id"`
	GuildID     string `yaml:"guild_id"`
	HistoryDays int    `yaml:"history_days"`
	BandStart   int    `yaml:"band_start"`
	BandEnd     int    `yaml:"band_end"`
	Debug       bool   `yaml:"debug"`
}

func defaults() *Config {
	return &Config{
		HistoryDays: 7,
		BandStart:   types.BandStart,
		BandEnd:     types.BandEnd,
	}
}

// Load reads the YAML file at path (DefaultPath if empty), then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	applyEnv(cfg)

	if cfg.BandStart < 0 || cfg.BandEnd > 23 || cfg.BandStart > cfg.BandEnd {
		return nil, fmt.Errorf("invalid working-hour band %d-%d", cfg.BandStart, cfg.BandEnd)
	}
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = 7
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("DISCORD_APP_ID"); v != "" {
		cfg.AppID = v
	}
	if v := os.Getenv("DISCORD_GUILD_ID"); v != "" {
		cfg.GuildID = v
	}
	if v := os.Getenv("HISTORY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HistoryDays = n
		}
	}
	if v := os.Getenv("BAND_START"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BandStart = n
		}
	}
	if v := os.Getenv("BAND_END"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BandEnd = n
		}
	}
	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}
}
