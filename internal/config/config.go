package config

import (
	"fmt"
	"time"

	"loginbot/internal/components/telemetry"
	"loginbot/internal/notify"
	"loginbot/pkg/sqliteutil"
)

// Config is the schema of config.json5.
type Config struct {
	// BatchSize is the amount of accounts processed per trigger.
	BatchSize  int `json:"batch_size"`
	DelayMinMs int `json:"delay_min_ms"`
	DelayMaxMs int `json:"delay_max_ms"`
	// Timezone is where day boundaries and the day reset are computed.
	Timezone string `json:"timezone"`
	// DisplayTimezone is shown next to UTC in login notifications.
	DisplayTimezone  string `json:"display_timezone"`
	Cron             string `json:"cron"`
	HealthPort       int    `json:"health_port"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
	RequestTimeoutMs int    `json:"request_timeout_ms"`
	Verbose          bool   `json:"verbose"`

	Store     sqliteutil.Config  `json:"store"`
	Email     notify.EmailConfig `json:"email"`
	Telemetry telemetry.Config   `json:"telemetry"`

	// Accounts and Telegram are overridden by ACCOUNTS_JSON and TELEGRAM_JSON.
	Accounts []AccountEntry `json:"accounts"`
	Telegram *TelegramEntry `json:"telegram"`
}

func Default() Config {
	return Config{
		BatchSize:        3,
		DelayMinMs:       1000,
		DelayMaxMs:       9000,
		Timezone:         "UTC",
		DisplayTimezone:  "Asia/Shanghai",
		Cron:             "*/10 * * * *",
		HealthPort:       8080,
		RequestTimeoutMs: 30000,
		Store: sqliteutil.Config{
			File: "state.db",
		},
	}
}

// WithDefaults fills every unset field with its default.
func (c Config) WithDefaults() Config {
	def := Default()
	if c.BatchSize == 0 {
		c.BatchSize = def.BatchSize
	}
	if c.DelayMinMs == 0 && c.DelayMaxMs == 0 {
		c.DelayMinMs = def.DelayMinMs
		c.DelayMaxMs = def.DelayMaxMs
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.DisplayTimezone == "" {
		c.DisplayTimezone = def.DisplayTimezone
	}
	if c.Cron == "" {
		c.Cron = def.Cron
	}
	if c.HealthPort == 0 {
		c.HealthPort = def.HealthPort
	}
	if c.RequestTimeoutMs == 0 {
		c.RequestTimeoutMs = def.RequestTimeoutMs
	}
	if !c.Store.Enabled() {
		c.Store = def.Store
	}
	return c
}

func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.DelayMinMs < 0 || c.DelayMaxMs < c.DelayMinMs {
		return fmt.Errorf("invalid delay range [%d, %d]", c.DelayMinMs, c.DelayMaxMs)
	}
	if c.HealthPort < 0 || c.HealthPort > 65535 {
		return fmt.Errorf("invalid health_port %d", c.HealthPort)
	}
	return nil
}

func (c Config) DelayRange() (time.Duration, time.Duration) {
	return time.Duration(c.DelayMinMs) * time.Millisecond,
		time.Duration(c.DelayMaxMs) * time.Millisecond
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}
