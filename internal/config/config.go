package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
	"github.com/Durga-Talluri/cloudops-pro/pkg/storage"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds all CloudOps Pro configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Alerts     AlertsConfig     `mapstructure:"alerts"`
	Generator  GeneratorConfig  `mapstructure:"generator"`
	Narrator   NarratorConfig   `mapstructure:"narrator"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Compliance ComplianceConfig `mapstructure:"compliance"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Listen       string        `mapstructure:"listen"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// StorageConfig selects the alert store.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// AlertsConfig defines id generation and seeding.
type AlertsConfig struct {
	IDScheme string `mapstructure:"id_scheme"`
	Seed     bool   `mapstructure:"seed"`
}

// GeneratorConfig seeds the mock data generators. Zero seeds from the clock.
type GeneratorConfig struct {
	Seed int64 `mapstructure:"seed"`
}

// NarratorConfig defines the language model used for insights.
type NarratorConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Temperature     float64       `mapstructure:"temperature"`
	Timeout         time.Duration `mapstructure:"timeout"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	MaxPromptTokens int           `mapstructure:"max_prompt_tokens"`
}

// NotifyConfig defines alert notification integrations.
type NotifyConfig struct {
	MinSeverity string        `mapstructure:"min_severity"`
	Slack       SlackConfig   `mapstructure:"slack"`
	Webhook     WebhookConfig `mapstructure:"webhook"`
}

// SlackConfig defines Slack webhook settings.
type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Secret  string `mapstructure:"secret"`
}

// ComplianceConfig defines the periodic scan. An empty schedule disables it.
type ComplianceConfig struct {
	ScanSchedule string `mapstructure:"scan_schedule"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SentryConfig defines error reporting. An empty DSN disables it.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".cloudops"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("cloudops")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("CLOUDOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("narrator.api_key", "CLOUDOPS_NARRATOR_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind narrator api key: %w", err)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Every key gets a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", ":8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000", "http://localhost:8081"})
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.path", storage.MemoryPath)
	v.SetDefault("alerts.id_scheme", storage.SchemeSequential)
	v.SetDefault("alerts.seed", true)
	v.SetDefault("generator.seed", 0)
	v.SetDefault("narrator.api_key", "")
	v.SetDefault("narrator.base_url", "https://api.openai.com/v1")
	v.SetDefault("narrator.model", "gpt-3.5-turbo")
	v.SetDefault("narrator.max_tokens", 200)
	v.SetDefault("narrator.temperature", 0.7)
	v.SetDefault("narrator.timeout", "15s")
	v.SetDefault("narrator.cache_ttl", "10m")
	v.SetDefault("narrator.max_prompt_tokens", 1024)
	v.SetDefault("notify.min_severity", string(model.SeverityCritical))
	v.SetDefault("notify.slack.enabled", false)
	v.SetDefault("notify.slack.webhook_url", "")
	v.SetDefault("notify.slack.channel", "")
	v.SetDefault("notify.webhook.enabled", false)
	v.SetDefault("notify.webhook.url", "")
	v.SetDefault("notify.webhook.secret", "")
	v.SetDefault("compliance.scan_schedule", "")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate rejects values the services cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
	}
	switch c.Alerts.IDScheme {
	case storage.SchemeSequential, storage.SchemeUUID:
	default:
		return fmt.Errorf("alerts.id_scheme: unknown scheme %q", c.Alerts.IDScheme)
	}
	if _, err := model.ParseSeverity(c.Notify.MinSeverity); err != nil {
		return fmt.Errorf("notify.min_severity: %w", err)
	}
	if c.Notify.Slack.Enabled && c.Notify.Slack.WebhookURL == "" {
		return errors.New("notify.slack.webhook_url is required when slack is enabled")
	}
	if c.Notify.Webhook.Enabled && c.Notify.Webhook.URL == "" {
		return errors.New("notify.webhook.url is required when the webhook is enabled")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	return nil
}
