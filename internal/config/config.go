package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"BTCPulse/internal/model"
)

// Ticker sources.
const (
	TickerREST      = "rest"
	TickerWebSocket = "websocket"
)

// Config holds all application configuration.
type Config struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	Granularity string `yaml:"granularity"`
	DataSource  struct {
		Pair    string `yaml:"pair"`
		BaseURL string `yaml:"base_url"`
		FeedURL string `yaml:"feed_url"`
		Ticker  string `yaml:"ticker"`
	} `yaml:"data_source"`
	Watch struct {
		Cron        string `yaml:"cron"`
		RunOnStart  bool   `yaml:"run_on_start"`
		TimeoutSecs int    `yaml:"timeout_seconds"`
	} `yaml:"watch"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Output struct {
		NoColor bool `yaml:"no_color"`
	} `yaml:"output"`
	Proxy string `yaml:"proxy"`
}

// Load reads an optional .env file and config from a YAML file, then applies
// environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

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
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PULSE_GRANULARITY"); v != "" {
		cfg.Granularity = v
	}
	if v := os.Getenv("PULSE_PAIR"); v != "" {
		cfg.DataSource.Pair = v
	}
	if v := os.Getenv("COINBASE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("COINBASE_WS_URL"); v != "" {
		cfg.DataSource.FeedURL = v
	}
	if v := os.Getenv("PULSE_TICKER_SOURCE"); v != "" {
		cfg.DataSource.Ticker = v
	}
	if v := os.Getenv("PULSE_WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.Output.NoColor = true
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.Granularity == "" {
		cfg.Granularity = model.OneMinute.String()
	}
	if cfg.DataSource.Pair == "" {
		cfg.DataSource.Pair = "BTC-USD"
	}
	if cfg.DataSource.Ticker == "" {
		cfg.DataSource.Ticker = TickerREST
	}
	if cfg.Watch.Cron == "" {
		cfg.Watch.Cron = "0 * * * * *"
	}
	if cfg.Watch.TimeoutSecs == 0 {
		cfg.Watch.TimeoutSecs = 30
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if _, err := model.ParseGranularity(c.Granularity); err != nil {
		return fmt.Errorf("granularity: %w", err)
	}
	if c.DataSource.Pair == "" {
		return fmt.Errorf("data_source.pair is required")
	}
	switch c.DataSource.Ticker {
	case TickerREST, TickerWebSocket:
	default:
		return fmt.Errorf("data_source.ticker must be %q or %q, got %q", TickerREST, TickerWebSocket, c.DataSource.Ticker)
	}
	if c.Watch.TimeoutSecs <= 0 {
		return fmt.Errorf("watch.timeout_seconds must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}
