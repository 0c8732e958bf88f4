package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
	"github.com/robfig/cron/v3"
)

// Scheduler runs forced compliance checks on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	svc     *Service
	timeout time.Duration
	logger  *slog.Logger
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

// NewScheduler parses spec (standard five-field or a descriptor such as
// "@every 1h") and registers the scan job. Call Start to begin.
func NewScheduler(svc *Service, spec string, logger *slog.Logger) (*Scheduler, error) {
	cl := cronLogger{logger: logger.With("component", "compliance-scheduler")}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		svc:     svc,
		timeout: 30 * time.Second,
		logger:  logger,
	}
	if _, err := s.cron.AddFunc(spec, s.scan); err != nil {
		return nil, fmt.Errorf("parse compliance schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("compliance scheduler started")
}

// Stop halts the scheduler and waits for a running scan to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("compliance scheduler stop timed out")
	}
}

func (s *Scheduler) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report, err := s.svc.Check(ctx, model.ComplianceCheckRequest{ForceRefresh: true})
	if err != nil {
		s.logger.Error("scheduled compliance check failed", "error", err)
		return
	}
	s.logger.Info("scheduled compliance check", "overall_score", report.OverallScore)
}
