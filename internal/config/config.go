package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"RateSentinel/internal/model"
)

// Config holds all application configuration. It is loaded once at startup
// and treated as immutable afterwards.
type Config struct {
	Mail struct {
		Host               string `yaml:"host" env:"SMTP_SERVER"`
		Port               int    `yaml:"port" env:"SMTP_PORT"`
		Sender             string `yaml:"sender" env:"SENDER_EMAIL"`
		Password           string `yaml:"password" env:"SENDER_PASSWORD"`
		Recipient          string `yaml:"recipient" env:"RECIPIENT_EMAIL"`
		MaxRetries         int    `yaml:"max_retries" env:"MAIL_MAX_RETRIES"`
		RetryDelaySeconds  int    `yaml:"retry_delay_seconds" env:"MAIL_RETRY_DELAY"`
		DialTimeoutSeconds int    `yaml:"dial_timeout_seconds" env:"MAIL_DIAL_TIMEOUT"`
	} `yaml:"mail"`
	DataSource struct {
		Symbol  string `yaml:"symbol" env:"CURRENCY_PAIR"`
		BaseURL string `yaml:"base_url" env:"RATES_BASE_URL"`
	} `yaml:"data_source"`
	Baseline struct {
		Mode        string  `yaml:"mode" env:"BASELINE_MODE"`
		CustomValue float64 `yaml:"custom_value" env:"CUSTOM_VALUE"`
		CustomDays  int     `yaml:"custom_days" env:"CUSTOM_DAYS"`
	} `yaml:"baseline"`
	Monitor struct {
		IntervalSeconds int   `yaml:"interval_seconds" env:"CHECK_INTERVAL"`
		RunOnStart      *bool `yaml:"run_on_start"`
	} `yaml:"monitor"`
	Schedule struct {
		DigestCron string `yaml:"digest_cron" env:"DIGEST_CRON"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy" env:"HTTPS_PROXY"`

	mode model.BaselineMode // set by Validate
}

// Load reads config from a YAML file, applies environment variable
// overrides, then fills in defaults. A missing file is not an error; the
// environment alone can carry the whole configuration.
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

	// Environment variable overrides via env tags.
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	// RUN_ON_START defaults to true, so unset must stay distinguishable
	// from an explicit false; it is handled by hand.
	if v := os.Getenv("RUN_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse RUN_ON_START: %w", err)
		}
		cfg.Monitor.RunOnStart = &b
	}

	// Defaults
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Mail.MaxRetries == 0 {
		cfg.Mail.MaxRetries = 3
	}
	if cfg.Mail.RetryDelaySeconds == 0 {
		cfg.Mail.RetryDelaySeconds = 5
	}
	if cfg.Mail.DialTimeoutSeconds == 0 {
		cfg.Mail.DialTimeoutSeconds = 30
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "JPYCNY=X"
	}
	if cfg.Baseline.Mode == "" {
		cfg.Baseline.Mode = string(model.ModeYearAverage)
	}
	if cfg.Baseline.CustomDays == 0 {
		cfg.Baseline.CustomDays = 7
	}
	if cfg.Monitor.IntervalSeconds == 0 {
		cfg.Monitor.IntervalSeconds = 3600
	}
	if cfg.Monitor.RunOnStart == nil {
		runOnStart := true
		cfg.Monitor.RunOnStart = &runOnStart
	}

	return cfg, nil
}

// Validate checks that all required fields are set and the baseline mode is
// a member of the closed enumeration. Any error here is fatal at startup.
func (c *Config) Validate() error {
	if c.Mail.Host == "" {
		return fmt.Errorf("mail.host is required")
	}
	if c.Mail.Sender == "" {
		return fmt.Errorf("mail.sender is required")
	}
	if c.Mail.Password == "" {
		return fmt.Errorf("mail.password is required")
	}
	if c.Mail.Recipient == "" {
		return fmt.Errorf("mail.recipient is required")
	}
	if c.Mail.Port <= 0 {
		return fmt.Errorf("mail.port must be positive")
	}
	if c.Mail.MaxRetries <= 0 {
		return fmt.Errorf("mail.max_retries must be positive")
	}
	if c.Monitor.IntervalSeconds <= 0 {
		return fmt.Errorf("monitor.interval_seconds must be positive")
	}

	mode, err := model.ParseBaselineMode(c.Baseline.Mode)
	if err != nil {
		return err
	}
	c.mode = mode

	switch mode {
	case model.ModeCustomValue:
		if c.Baseline.CustomValue <= 0 {
			return fmt.Errorf("baseline.custom_value must be positive for mode %s", mode)
		}
	case model.ModeCustomDaysAverage:
		if c.Baseline.CustomDays <= 0 {
			return fmt.Errorf("baseline.custom_days must be positive for mode %s", mode)
		}
	}
	return nil
}

// Mode returns the validated baseline mode. Validate must have succeeded.
func (c *Config) Mode() model.BaselineMode { return c.mode }

// Interval returns the poll interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Monitor.IntervalSeconds) * time.Second
}

// RunOnStart reports whether the first check runs immediately rather than
// after one full interval.
func (c *Config) RunOnStart() bool {
	return c.Monitor.RunOnStart == nil || *c.Monitor.RunOnStart
}

// RetryDelay returns the fixed delay between mail send attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Mail.RetryDelaySeconds) * time.Second
}

// DialTimeout returns the SMTP connection timeout.
func (c *Config) DialTimeout() time.Duration {
	return time.Duration(c.Mail.DialTimeoutSeconds) * time.Second
}
