// Package config loads the reporter configuration and the per-site list.
// The main config file may be YAML or JSON (detected by extension); the
// site list and locale tables are JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the reporter process.
type Config struct {
	Company   CompanyConfig   `yaml:"company" json:"company"`
	Umami     UmamiConfig     `yaml:"umami" json:"umami"`
	SMTP      SMTPConfig      `yaml:"smtp" json:"smtp"`
	SES       SESConfig       `yaml:"ses" json:"ses"`
	Delivery  DeliveryConfig  `yaml:"delivery" json:"delivery"`
	Scheduler SchedulerConfig `yaml:"scheduler" json:"scheduler"`
	Watermark WatermarkConfig `yaml:"watermark" json:"watermark"`
	Status    StatusConfig    `yaml:"status" json:"status"`
	Report    ReportConfig    `yaml:"report" json:"report"`
}

// CompanyConfig holds the branding injected into every report.
type CompanyConfig struct {
	Name  string `yaml:"name" json:"name"`
	URL   string `yaml:"url" json:"url"`
	Logo  string `yaml:"logo" json:"logo"`
	Email string `yaml:"email" json:"email"`
}

// UmamiConfig holds the analytics API endpoint and credentials.
type UmamiConfig struct {
	APIURL         string `yaml:"api_url" json:"api_url"`
	Username       string `yaml:"username" json:"username"`
	Password       string `yaml:"password" json:"password"`
	Timezone       string `yaml:"timezone" json:"timezone"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries" json:"max_retries"`
}

// Timeout returns the per-call timeout as a duration.
func (c UmamiConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SMTPConfig holds SMTP transport settings.
type SMTPConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	Username  string `yaml:"username" json:"username"`
	Password  string `yaml:"password" json:"password"`
	FromEmail string `yaml:"from_email" json:"from_email"`
	FromName  string `yaml:"from_name" json:"from_name"`
}

// SESConfig holds AWS SES transport settings.
type SESConfig struct {
	Region    string `yaml:"region" json:"region"`
	AccessKey string `yaml:"access_key" json:"access_key"`
	SecretKey string `yaml:"secret_key" json:"secret_key"`
	FromEmail string `yaml:"from_email" json:"from_email"`
	FromName  string `yaml:"from_name" json:"from_name"`
}

// DeliveryConfig selects the outbound transport.
type DeliveryConfig struct {
	Transport string `yaml:"transport" json:"transport"` // "smtp" or "ses"
}

// SchedulerConfig controls cadence policy and dispatch concurrency.
type SchedulerConfig struct {
	Policy          string `yaml:"policy" json:"policy"` // "dayofweek" or "elapsed"
	Workers         int    `yaml:"workers" json:"workers"`
	IntervalMinutes int    `yaml:"interval_minutes" json:"interval_minutes"`
}

// Interval returns the loop tick interval as a duration.
func (c SchedulerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// WatermarkConfig selects where last-sent timestamps are persisted,
// used only under the elapsed cadence policy.
type WatermarkConfig struct {
	Backend   string `yaml:"backend" json:"backend"` // "file" or "redis"
	Dir       string `yaml:"dir" json:"dir"`
	RedisAddr string `yaml:"redis_addr" json:"redis_addr"`
	RedisDB   int    `yaml:"redis_db" json:"redis_db"`
}

// StatusConfig controls the health/metrics HTTP endpoint served in loop mode.
type StatusConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// ReportConfig holds rendering inputs and outputs.
type ReportConfig struct {
	TemplatesDir string `yaml:"templates_dir" json:"templates_dir"`
	LocaleDir    string `yaml:"locale_dir" json:"locale_dir"`
	HTMLDir      string `yaml:"html_dir" json:"html_dir"`
}

// Load reads the config file at path. ".yaml"/".yml" files are parsed as
// YAML, everything else as JSON. Defaults are applied after parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Umami.Timezone == "" {
		cfg.Umami.Timezone = "CET"
	}
	if cfg.Umami.TimeoutSeconds == 0 {
		cfg.Umami.TimeoutSeconds = 30
	}
	if cfg.Umami.MaxRetries == 0 {
		cfg.Umami.MaxRetries = 3
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.SES.Region == "" {
		cfg.SES.Region = "us-west-2"
	}
	if cfg.Delivery.Transport == "" {
		cfg.Delivery.Transport = "smtp"
	}
	if cfg.Scheduler.Policy == "" {
		cfg.Scheduler.Policy = "dayofweek"
	}
	if cfg.Scheduler.Workers == 0 {
		cfg.Scheduler.Workers = 5
	}
	if cfg.Scheduler.IntervalMinutes == 0 {
		cfg.Scheduler.IntervalMinutes = 60
	}
	if cfg.Watermark.Backend == "" {
		cfg.Watermark.Backend = "file"
	}
	if cfg.Watermark.Dir == "" {
		cfg.Watermark.Dir = "watermarks"
	}
	if cfg.Status.Addr == "" {
		cfg.Status.Addr = ":9090"
	}
	if cfg.Report.TemplatesDir == "" {
		cfg.Report.TemplatesDir = "templates"
	}
	if cfg.Report.LocaleDir == "" {
		cfg.Report.LocaleDir = "locale"
	}
	if cfg.Report.HTMLDir == "" {
		cfg.Report.HTMLDir = "html-files"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file (if present) is loaded first, so secrets can live in .env
// locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("UMAMI_API_URL"); v != "" {
		cfg.Umami.APIURL = v
	}
	if v := os.Getenv("UMAMI_USERNAME"); v != "" {
		cfg.Umami.Username = v
	}
	if v := os.Getenv("UMAMI_PASSWORD"); v != "" {
		cfg.Umami.Password = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = port
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.SES.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.SES.SecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.SES.Region = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Watermark.RedisAddr = v
	}

	return cfg, nil
}
