package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		// General bot: trend recommendations and operator alerts.
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		// Equity bot: domestic screening reports.
		EquityBotToken string `yaml:"equity_bot_token"`
		EquityChatID   string `yaml:"equity_chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL    string  `yaml:"base_url"`
		APIKey     string  `yaml:"api_key"`
		RatePerSec float64 `yaml:"rate_per_sec"`
	} `yaml:"data_source"`
	Trend struct {
		Symbol string `yaml:"symbol"`
		Cron   string `yaml:"cron"`
	} `yaml:"trend"`
	Screen struct {
		Cron     string   `yaml:"cron"`
		Workers  int      `yaml:"workers"`
		RuleSets []string `yaml:"rule_sets"`
	} `yaml:"screen"`
	Retry struct {
		Attempts     int `yaml:"attempts"`
		DelaySeconds int `yaml:"delay_seconds"`
	} `yaml:"retry"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; env and defaults
// can carry a deployment alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("EQUITY_BOT_TOKEN"); v != "" {
		cfg.Telegram.EquityBotToken = v
	}
	if v := os.Getenv("EQUITY_CHAT_ID"); v != "" {
		cfg.Telegram.EquityChatID = v
	}
	if v := os.Getenv("KRX_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("KRX_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_TREND"); v != "" {
		cfg.Trend.Cron = v
	}
	if v := os.Getenv("CRON_SCREEN"); v != "" {
		cfg.Screen.Cron = v
	}
	if v := os.Getenv("SCREEN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Screen.Workers = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Trend.Symbol == "" {
		cfg.Trend.Symbol = "TQQQ"
	}
	if cfg.Trend.Cron == "" {
		// Weekday mornings KST, after the US close.
		cfg.Trend.Cron = "0 0 9 * * 1-5"
	}
	if cfg.Screen.Cron == "" {
		// Weekday afternoons KST, after the KRX close.
		cfg.Screen.Cron = "0 0 16 * * 1-5"
	}
	if len(cfg.Screen.RuleSets) == 0 {
		cfg.Screen.RuleSets = []string{"breakout-largecap", "wave-scored"}
	}
	if cfg.DataSource.RatePerSec == 0 {
		cfg.DataSource.RatePerSec = 5
	}
	if cfg.Retry.Attempts == 0 {
		cfg.Retry.Attempts = 5
	}
	if cfg.Retry.DelaySeconds == 0 {
		cfg.Retry.DelaySeconds = 3
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockscout.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry.attempts must be at least 1")
	}
	if c.Screen.Workers < 0 {
		return fmt.Errorf("screen.workers must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if (c.Telegram.EquityBotToken == "") != (c.Telegram.EquityChatID == "") {
		return fmt.Errorf("telegram.equity_bot_token and telegram.equity_chat_id must be set together")
	}
	return nil
}
