// Package alerting owns the alert lifecycle: validation, timestamps,
// notifications and the filtered views served to the dashboard.
package alerting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
	"github.com/Durga-Talluri/cloudops-pro/pkg/notify"
	"github.com/Durga-Talluri/cloudops-pro/pkg/storage"
)

// ErrInvalidInput marks a request the client must correct.
var ErrInvalidInput = errors.New("invalid input")

// notifyTimeout bounds one round of notifications for a new alert.
const notifyTimeout = 10 * time.Second

// Lifecycle actions reported to the Recorder.
const (
	ActionCreated      = "created"
	ActionUpdated      = "updated"
	ActionDeleted      = "deleted"
	ActionAcknowledged = "acknowledged"
)

// Recorder receives alert lifecycle counts.
type Recorder interface {
	AlertEvent(action string, n int)
}

type noopRecorder struct{}

func (noopRecorder) AlertEvent(string, int) {}

// Service applies lifecycle rules on top of an AlertStore.
type Service struct {
	store       storage.AlertStore
	notifiers   []notify.Notifier
	minSeverity model.Severity
	recorder    Recorder
	now         func() time.Time
	logger      *slog.Logger

	pending sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithNotifiers sends a notification for each new alert at or above min severity.
func WithNotifiers(minSeverity model.Severity, notifiers ...notify.Notifier) Option {
	return func(s *Service) {
		s.minSeverity = minSeverity
		s.notifiers = append(s.notifiers, notifiers...)
	}
}

// WithRecorder reports lifecycle events, typically to metrics.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an alert service.
func NewService(store storage.AlertStore, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:       store,
		minSeverity: model.SeverityCritical,
		recorder:    noopRecorder{},
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed inserts alerts as given, keeping their status and timestamps.
func (s *Service) Seed(ctx context.Context, alerts []model.Alert) error {
	for i := range alerts {
		if err := s.store.Create(ctx, &alerts[i]); err != nil {
			return fmt.Errorf("seed alert %q: %w", alerts[i].Title, err)
		}
	}
	s.logger.Debug("alerts seeded", "count", len(alerts))
	return nil
}

// Create stores a new active alert and notifies subscribers in the
// background. The title may be empty.
func (s *Service) Create(ctx context.Context, req model.AlertCreate) (*model.Alert, error) {
	severity, err := model.ParseSeverity(string(req.Severity))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	alert := &model.Alert{
		Title:       req.Title,
		Description: req.Description,
		Severity:    severity,
		Status:      model.StatusActive,
		Timestamp:   s.now(),
		Resource:    req.Resource,
		Category:    req.Category,
		Metadata:    req.Metadata,
	}
	if err := s.store.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}

	s.recorder.AlertEvent(ActionCreated, 1)
	s.logger.Info("alert created", "id", alert.ID, "severity", alert.Severity, "resource", alert.Resource)
	s.dispatch(ctx, *alert)
	return alert, nil
}

// Get returns one alert.
func (s *Service) Get(ctx context.Context, id string) (*model.Alert, error) {
	return s.store.Get(ctx, id)
}

// UpdateStatus moves an alert to a new status. Every transition is allowed.
func (s *Service) UpdateStatus(ctx context.Context, id string, req model.AlertUpdate) (*model.Alert, error) {
	status, err := model.ParseStatus(string(req.Status))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	alert, err := s.store.UpdateStatus(ctx, id, status, s.now())
	if err != nil {
		return nil, err
	}

	s.recorder.AlertEvent(ActionUpdated, 1)
	s.logger.Info("alert status updated", "id", id, "status", status, "notes", req.Notes)
	return alert, nil
}

// Delete removes an alert and returns it.
func (s *Service) Delete(ctx context.Context, id string) (*model.Alert, error) {
	alert, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.recorder.AlertEvent(ActionDeleted, 1)
	s.logger.Info("alert deleted", "id", id)
	return alert, nil
}

// BulkAcknowledge acknowledges every known id and returns how many changed.
func (s *Service) BulkAcknowledge(ctx context.Context, ids []string) (int, error) {
	n, err := s.store.Acknowledge(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("acknowledge alerts: %w", err)
	}
	s.recorder.AlertEvent(ActionAcknowledged, n)
	s.logger.Info("alerts acknowledged", "requested", len(ids), "updated", n)
	return n, nil
}

// List returns one filtered page.
func (s *Service) List(ctx context.Context, f model.AlertFilter) (model.AlertPage, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return model.AlertPage{}, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	if f.Severity != "" && !f.Severity.Valid() {
		return model.AlertPage{}, fmt.Errorf("%w: invalid severity %q", ErrInvalidInput, f.Severity)
	}
	if f.Status != "" && !f.Status.Valid() {
		return model.AlertPage{}, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, f.Status)
	}

	snapshot, err := s.store.List(ctx)
	if err != nil {
		return model.AlertPage{}, fmt.Errorf("list alerts: %w", err)
	}
	return Query(snapshot, f, s.now()), nil
}

// Stats summarizes the store.
func (s *Service) Stats(ctx context.Context) (model.AlertStats, error) {
	snapshot, err := s.store.List(ctx)
	if err != nil {
		return model.AlertStats{}, fmt.Errorf("list alerts: %w", err)
	}
	return Summarize(snapshot, s.now()), nil
}

// Wait blocks until notifications already dispatched have been sent.
func (s *Service) Wait() {
	s.pending.Wait()
}

// dispatch notifies subscribers of a new alert without blocking the caller.
// Sends outlive the request context but not notifyTimeout. Failures are
// logged, never returned.
func (s *Service) dispatch(ctx context.Context, alert model.Alert) {
	if len(s.notifiers) == 0 || alert.Severity.Rank() < s.minSeverity.Rank() {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	s.pending.Go(func() {
		defer cancel()
		s.send(ctx, alert)
	})
}

func (s *Service) send(ctx context.Context, alert model.Alert) {

	n := notify.Notification{
		Event:   notify.EventAlertCreated,
		Alert:   alert,
		Message: fmt.Sprintf("New %s alert on %s: %s", alert.Severity, alert.Resource, alert.Title),
	}
	for _, notifier := range s.notifiers {
		if err := notifier.Send(ctx, n); err != nil {
			s.logger.Error("send notification failed",
				"notifier", notifier.Name(),
				"alert", alert.ID,
				"error", err,
			)
		}
	}
}
