// Package compliance serves mock compliance standards and simulates
// re-checking them.
package compliance

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/generator"
	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
)

// ErrStandardNotFound is returned for an unknown standard id.
var ErrStandardNotFound = errors.New("compliance standard not found")

// Score thresholds for deriving a standard's status.
const (
	PassScore    = 95
	WarningScore = 85
)

// Recorder receives the score of every checked standard.
type Recorder interface {
	ComplianceScore(standardID string, score int)
}

type noopRecorder struct{}

func (noopRecorder) ComplianceScore(string, int) {}

// Service holds the standards. Checks mutate them in place.
type Service struct {
	mu        sync.RWMutex
	standards []model.ComplianceStandard

	rng      generator.Source
	recorder Recorder
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder reports scores after each check.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a compliance service over the given standards.
func NewService(standards []model.ComplianceStandard, rng generator.Source, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		standards: cloneStandards(standards),
		rng:       rng,
		recorder:  noopRecorder{},
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, st := range s.standards {
		s.recorder.ComplianceScore(st.ID, st.Score)
	}
	return s
}

// StatusForScore derives pass/warning/fail from a score.
func StatusForScore(score int) model.ComplianceStatus {
	switch {
	case score >= PassScore:
		return model.CompliancePass
	case score >= WarningScore:
		return model.ComplianceWarning
	default:
		return model.ComplianceFail
	}
}

// Report lists every standard with the overall score.
func (s *Service) Report() model.ComplianceReport {
	s.mu.RLock()
	standards := cloneStandards(s.standards)
	s.mu.RUnlock()

	return model.ComplianceReport{
		Standards:    standards,
		OverallScore: overallScore(standards),
		LastUpdated:  s.now(),
	}
}

// Get returns one standard.
func (s *Service) Get(id string) (*model.ComplianceStandard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrStandardNotFound
	}
	st := cloneStandard(s.standards[i])
	return &st, nil
}

// Check re-checks the requested standards, or all of them when none are
// named. Unknown ids are ignored. With ForceRefresh each score drifts by up
// to two points and the status is re-derived. The report covers only the
// checked standards.
func (s *Service) Check(ctx context.Context, req model.ComplianceCheckRequest) (model.ComplianceReport, error) {
	if err := ctx.Err(); err != nil {
		return model.ComplianceReport{}, err
	}

	now := s.now()

	s.mu.Lock()
	checked := make([]model.ComplianceStandard, 0, len(s.standards))
	for i := range s.standards {
		st := &s.standards[i]
		if len(req.StandardIDs) > 0 && !slices.Contains(req.StandardIDs, st.ID) {
			continue
		}
		st.LastChecked = now
		if req.ForceRefresh {
			st.Score = min(100, max(0, st.Score+s.rng.IntBetween(-2, 2)))
			st.Status = StatusForScore(st.Score)
		}
		checked = append(checked, cloneStandard(*st))
	}
	s.mu.Unlock()

	for _, st := range checked {
		s.recorder.ComplianceScore(st.ID, st.Score)
	}
	s.logger.Info("compliance check completed",
		"standards", len(checked),
		"force_refresh", req.ForceRefresh,
	)

	return model.ComplianceReport{
		Standards:    checked,
		OverallScore: overallScore(checked),
		LastUpdated:  now,
	}, nil
}

// Stats counts standards by status and issues by severity.
func (s *Service) Stats() model.ComplianceStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := model.ComplianceStats{
		TotalStandards: len(s.standards),
		OverallScore:   overallScore(s.standards),
		LastUpdated:    s.now(),
	}
	for _, st := range s.standards {
		switch st.Status {
		case model.CompliancePass:
			stats.PassingStandards++
		case model.ComplianceWarning:
			stats.WarningStandards++
		case model.ComplianceFail:
			stats.FailingStandards++
		}
		stats.TotalIssues += len(st.Issues)
		for _, issue := range st.Issues {
			switch issue.Severity {
			case model.IssueCritical:
				stats.CriticalIssues++
			case model.IssueHigh:
				stats.HighIssues++
			}
		}
	}
	return stats
}

// IssuesSummary flattens issues across standards, grouped by severity.
func (s *Service) IssuesSummary() model.IssuesSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := model.IssuesSummary{
		IssuesBySeverity: map[string][]model.IssueRef{
			model.IssueCritical: {},
			model.IssueHigh:     {},
			model.IssueMedium:   {},
			model.IssueLow:      {},
		},
		IssuesByStandard: make(map[string]int, len(s.standards)),
		LastUpdated:      s.now(),
	}
	for _, st := range s.standards {
		summary.IssuesByStandard[st.ID] = len(st.Issues)
		for _, issue := range st.Issues {
			summary.TotalIssues++
			ref := model.IssueRef{
				ID:         issue.ID,
				Title:      issue.Title,
				Severity:   issue.Severity,
				Standard:   st.Name,
				StandardID: st.ID,
				Status:     issue.Status,
			}
			if group, ok := summary.IssuesBySeverity[issue.Severity]; ok {
				summary.IssuesBySeverity[issue.Severity] = append(group, ref)
			}
		}
	}
	return summary
}

func (s *Service) indexOf(id string) int {
	return slices.IndexFunc(s.standards, func(st model.ComplianceStandard) bool {
		return st.ID == id
	})
}

// overallScore is the integer mean score, or 0 without standards.
func overallScore(standards []model.ComplianceStandard) int {
	if len(standards) == 0 {
		return 0
	}
	total := 0
	for _, st := range standards {
		total += st.Score
	}
	return total / len(standards)
}

func cloneStandard(st model.ComplianceStandard) model.ComplianceStandard {
	st.Issues = slices.Clone(st.Issues)
	if st.Issues == nil {
		st.Issues = []model.ComplianceIssue{}
	}
	return st
}

func cloneStandards(src []model.ComplianceStandard) []model.ComplianceStandard {
	out := make([]model.ComplianceStandard, len(src))
	for i, st := range src {
		out[i] = cloneStandard(st)
	}
	return out
}
