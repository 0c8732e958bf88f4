package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/internal/config"
	"github.com/Durga-Talluri/cloudops-pro/internal/metrics"
	"github.com/Durga-Talluri/cloudops-pro/internal/server"
	"github.com/Durga-Talluri/cloudops-pro/pkg/alerting"
	"github.com/Durga-Talluri/cloudops-pro/pkg/compliance"
	"github.com/Durga-Talluri/cloudops-pro/pkg/costs"
	"github.com/Durga-Talluri/cloudops-pro/pkg/fixtures"
	"github.com/Durga-Talluri/cloudops-pro/pkg/generator"
	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
	"github.com/Durga-Talluri/cloudops-pro/pkg/narrator"
	"github.com/Durga-Talluri/cloudops-pro/pkg/notify"
	"github.com/Durga-Talluri/cloudops-pro/pkg/storage"
	"github.com/Durga-Talluri/cloudops-pro/pkg/usage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "1.0.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cloudops",
	Short: "CloudOps Pro - cloud operations dashboard backend",
	Long: `CloudOps Pro serves the dashboard API for alerts, AI cost analysis,
compliance posture and multi-cloud usage. Cost, compliance and usage data
are generated from embedded mock datasets.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.cloudops/cloudops.yaml)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// initStore creates the alert store from config.
func initStore(cfg *config.Config) (storage.AlertStore, error) {
	ids, err := storage.NewIDGenerator(cfg.Alerts.IDScheme)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Driver == config.DriverSQLite {
		return storage.NewSQLite(cfg.Storage.Path, ids)
	}
	return storage.NewMemory(ids), nil
}

// initNotifiers creates alert notifiers from config.
func initNotifiers(cfg *config.Config) []notify.Notifier {
	var notifiers []notify.Notifier

	if cfg.Notify.Slack.Enabled && cfg.Notify.Slack.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(
			cfg.Notify.Slack.WebhookURL,
			cfg.Notify.Slack.Channel,
		))
	}

	if cfg.Notify.Webhook.Enabled && cfg.Notify.Webhook.URL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(
			cfg.Notify.Webhook.URL,
			cfg.Notify.Webhook.Secret,
		))
	}

	return notifiers
}

// initNarrator creates the insight narrator. Without an API key every
// analysis carries the unconfigured fallback text.
func initNarrator(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (narrator.Narrator, error) {
	pricing, err := narrator.LoadPricing(fixtures.Pricing())
	if err != nil {
		return nil, err
	}

	opts := []narrator.Option{narrator.WithPricing(pricing)}
	if m != nil {
		opts = append(opts, narrator.WithRecorder(m))
	}

	n := narrator.New(narrator.Config{
		APIKey:          cfg.Narrator.APIKey,
		BaseURL:         cfg.Narrator.BaseURL,
		Model:           cfg.Narrator.Model,
		MaxTokens:       cfg.Narrator.MaxTokens,
		Temperature:     cfg.Narrator.Temperature,
		Timeout:         cfg.Narrator.Timeout,
		MaxPromptTokens: cfg.Narrator.MaxPromptTokens,
	}, logger, opts...)

	if _, ok := n.(narrator.Unavailable); ok {
		logger.Warn("narrator API key not configured, AI insights disabled")
		return n, nil
	}
	if cfg.Narrator.CacheTTL > 0 {
		n = narrator.NewCached(n, cfg.Narrator.CacheTTL)
	}
	return n, nil
}

// app is a fully wired set of services.
type app struct {
	services server.Services
	store    storage.AlertStore
	metrics  *metrics.Metrics
}

// initApp wires every service from config and seeds a fresh store.
// m may be nil when metrics are disabled.
func initApp(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*app, error) {
	ds, err := fixtures.Load()
	if err != nil {
		return nil, err
	}
	now := time.Now()

	store, err := initStore(cfg)
	if err != nil {
		return nil, err
	}

	alertOpts := []alerting.Option{
		alerting.WithNotifiers(model.Severity(cfg.Notify.MinSeverity), initNotifiers(cfg)...),
	}
	complianceOpts := []compliance.Option{}
	if m != nil {
		alertOpts = append(alertOpts, alerting.WithRecorder(m))
		complianceOpts = append(complianceOpts, compliance.WithRecorder(m))
	}
	alerts := alerting.NewService(store, logger, alertOpts...)

	if cfg.Alerts.Seed {
		if err := seedAlerts(ctx, alerts, store, ds, now); err != nil {
			store.Close()
			return nil, err
		}
	}

	n, err := initNarrator(cfg, m, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	standards, err := ds.StandardsAt(now)
	if err != nil {
		store.Close()
		return nil, err
	}

	resources := make(map[string][]model.CloudResource, len(usage.Providers))
	for _, p := range usage.Providers {
		rs, err := ds.ResourcesAt(p, now)
		if err != nil {
			store.Close()
			return nil, err
		}
		resources[p] = rs
	}

	rng := generator.New(cfg.Generator.Seed)
	return &app{
		services: server.Services{
			Alerts:     alerts,
			Costs:      costs.NewService(ds.CostHistory, ds.Optimizations, rng, logger, costs.WithNarrator(n)),
			Compliance: compliance.NewService(standards, rng, logger, complianceOpts...),
			Usage:      usage.NewService(resources, rng, logger),
		},
		store:   store,
		metrics: m,
	}, nil
}

// seedAlerts loads the sample alerts unless a persistent store already holds data.
func seedAlerts(ctx context.Context, alerts *alerting.Service, store storage.AlertStore, ds *fixtures.Dataset, now time.Time) error {
	existing, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list alerts: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	seeds, err := ds.AlertsAt(now)
	if err != nil {
		return err
	}
	return alerts.Seed(ctx, seeds)
}
