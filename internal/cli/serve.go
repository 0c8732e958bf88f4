package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/internal/metrics"
	"github.com/Durga-Talluri/cloudops-pro/internal/server"
	"github.com/Durga-Talluri/cloudops-pro/pkg/compliance"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CloudOps Pro API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	listen, _ := cmd.Flags().GetString("listen")
	if listen != "" {
		cfg.Server.Listen = listen
	}

	logger := newLogger(cfg)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     "cloudops@" + Version,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	a, err := initApp(cmd.Context(), cfg, m, logger)
	if err != nil {
		return err
	}
	defer a.store.Close()
	// Pending alert notifications finish before the store closes.
	defer a.services.Alerts.Wait()

	if cfg.Compliance.ScanSchedule != "" {
		scheduler, err := compliance.NewScheduler(a.services.Compliance, cfg.Compliance.ScanSchedule, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			scheduler.Stop(ctx)
		}()
		logger.Info("compliance scan scheduled", "schedule", cfg.Compliance.ScanSchedule)
	}

	opts := []server.Option{
		server.WithCORSOrigins(cfg.Server.CORSOrigins...),
		server.WithVersion(Version),
	}
	if m != nil {
		opts = append(opts, server.WithMetrics(m))
	}
	apiServer := server.NewServer(a.services, logger, opts...)

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      apiServer.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "listen", cfg.Server.Listen)
		fmt.Fprintf(os.Stderr, "CloudOps Pro API listening on %s\n", cfg.Server.Listen)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
