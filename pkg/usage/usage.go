// Package usage serves mock multi-cloud resource listings, cost totals and
// utilization metrics.
package usage

import (
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/generator"
	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
)

// ErrProviderNotFound is returned for a provider other than aws, gcp or azure.
var ErrProviderNotFound = errors.New("cloud provider not found")

// Providers lists the supported providers in response order.
var Providers = []string{model.ProviderAWS, model.ProviderGCP, model.ProviderAzure}

// DefaultMetricsRange is echoed when no time range is requested.
const DefaultMetricsRange = "1h"

const (
	metricHours = 24
	unitPercent = "percent"
	currencyUSD = "USD"
)

// Service serves a fixed resource inventory.
type Service struct {
	resources map[string][]model.CloudResource
	rng       generator.Source
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a usage service. Providers missing from resources have
// no resources.
func NewService(resources map[string][]model.CloudResource, rng generator.Source, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		resources: make(map[string][]model.CloudResource, len(Providers)),
		rng:       rng,
		now:       time.Now,
		logger:    logger,
	}
	for _, p := range Providers {
		s.resources[p] = slices.Clone(resources[p])
		if s.resources[p] == nil {
			s.resources[p] = []model.CloudResource{}
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Usage lists all resources with the combined monthly cost.
func (s *Service) Usage() model.CloudUsage {
	aws := slices.Clone(s.resources[model.ProviderAWS])
	gcp := slices.Clone(s.resources[model.ProviderGCP])
	azure := slices.Clone(s.resources[model.ProviderAzure])
	return model.CloudUsage{
		AWS:         aws,
		GCP:         gcp,
		Azure:       azure,
		TotalCost:   sumCost(aws) + sumCost(gcp) + sumCost(azure),
		LastUpdated: s.now(),
	}
}

// Provider lists the resources of one provider.
func (s *Service) Provider(name string) ([]model.CloudResource, error) {
	resources, ok := s.resources[name]
	if !ok {
		return nil, ErrProviderNotFound
	}
	return slices.Clone(resources), nil
}

// Metrics returns hourly CPU and memory samples for the last day, newest
// first. Any resource id is accepted.
func (s *Service) Metrics(resourceID, timeRange string) model.ResourceMetrics {
	if timeRange == "" {
		timeRange = DefaultMetricsRange
	}

	now := s.now()
	metrics := make([]model.ResourceMetric, 0, 2*metricHours)
	for i := range metricHours {
		ts := now.Add(-time.Duration(i) * time.Hour)
		metrics = append(metrics,
			model.ResourceMetric{
				ResourceID: resourceID,
				MetricName: model.MetricCPUUsage,
				Value:      generator.Round(s.rng.Uniform(20, 90), 2),
				Unit:       unitPercent,
				Timestamp:  ts,
			},
			model.ResourceMetric{
				ResourceID: resourceID,
				MetricName: model.MetricMemoryUsage,
				Value:      generator.Round(s.rng.Uniform(30, 85), 2),
				Unit:       unitPercent,
				Timestamp:  ts,
			},
		)
	}
	s.logger.Debug("resource metrics generated", "resource_id", resourceID, "samples", len(metrics))

	return model.ResourceMetrics{
		Metrics:     metrics,
		TimeRange:   timeRange,
		Aggregation: "hourly",
	}
}

// CostSummary breaks the monthly cost down by provider.
func (s *Service) CostSummary() model.UsageCostSummary {
	aws := sumCost(s.resources[model.ProviderAWS])
	gcp := sumCost(s.resources[model.ProviderGCP])
	azure := sumCost(s.resources[model.ProviderAzure])
	return model.UsageCostSummary{
		TotalCost:   aws + gcp + azure,
		AWSCost:     aws,
		GCPCost:     gcp,
		AzureCost:   azure,
		Currency:    currencyUSD,
		Period:      "monthly",
		LastUpdated: s.now(),
	}
}

func sumCost(resources []model.CloudResource) float64 {
	var total float64
	for _, r := range resources {
		total += r.Cost
	}
	return total
}
