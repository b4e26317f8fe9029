package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WatcherConfig drives the hedge watcher loop.
type WatcherConfig struct {
	TargetBook  string   `yaml:"target_book"`
	CompareBook string   `yaml:"compare_book"`
	Sports      []string `yaml:"sports"`
	Markets     []string `yaml:"markets"`

	IntervalSeconds  int     `yaml:"interval_seconds"`
	MaxResults       int     `yaml:"max_results"`
	MinMarginPercent float64 `yaml:"min_margin_percent"`
	UseDummyData     bool    `yaml:"use_dummy_data"`

	// Alert delivery
	CooldownMinutes   int    `yaml:"cooldown_minutes"`
	MaxAlertsPerCycle int    `yaml:"max_alerts_per_cycle"`
	AlertPhone        string `yaml:"alert_phone"`
	TelegramChatID    int64  `yaml:"telegram_chat_id"`
}

// DefaultWatcherConfig returns the watcher defaults: DraftKings priced
// against Novig on NBA and NFL moneylines, five minutes apart.
func DefaultWatcherConfig() *WatcherConfig {
	return &WatcherConfig{
		TargetBook:        "draftkings",
		CompareBook:       "novig",
		Sports:            []string{"basketball_nba", "americanfootball_nfl"},
		Markets:           []string{"h2h"},
		IntervalSeconds:   300,
		MaxResults:        15,
		MinMarginPercent:  0.0,
		CooldownMinutes:   60,
		MaxAlertsPerCycle: 3,
	}
}

// LoadWatcherConfig reads a YAML watcher config. Fields absent from the file
// keep their defaults.
func LoadWatcherConfig(path string) (*WatcherConfig, error) {
	cfg := DefaultWatcherConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the watcher cannot run with.
func (c *WatcherConfig) Validate() error {
	if c.TargetBook == "" || c.CompareBook == "" {
		return fmt.Errorf("target_book and compare_book are required")
	}
	if c.TargetBook == c.CompareBook {
		return fmt.Errorf("target_book and compare_book must differ")
	}
	if len(c.Sports) == 0 {
		return fmt.Errorf("at least one sport is required")
	}
	if len(c.Markets) == 0 {
		return fmt.Errorf("at least one market is required")
	}
	if c.IntervalSeconds < 5 {
		return fmt.Errorf("poll interval must be at least 5 seconds to avoid hammering the API")
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive")
	}
	if c.MinMarginPercent < 0 {
		return fmt.Errorf("min_margin_percent cannot be negative")
	}
	return nil
}
