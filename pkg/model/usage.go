package model

import "time"

// Cloud providers served by the usage endpoints.
const (
	ProviderAWS   = "aws"
	ProviderGCP   = "gcp"
	ProviderAzure = "azure"
)

// CloudResource is a billable resource at one provider.
type CloudResource struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Provider  string    `json:"provider"`
	Region    string    `json:"region"`
	Cost      float64   `json:"cost"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CloudUsage lists resources of every provider with the combined cost.
type CloudUsage struct {
	AWS         []CloudResource `json:"aws"`
	GCP         []CloudResource `json:"gcp"`
	Azure       []CloudResource `json:"azure"`
	TotalCost   float64         `json:"total_cost"`
	LastUpdated time.Time       `json:"last_updated"`
}

// Metric names reported per resource.
const (
	MetricCPUUsage    = "cpu_usage"
	MetricMemoryUsage = "memory_usage"
)

// ResourceMetric is one utilization sample.
type ResourceMetric struct {
	ResourceID string    `json:"resource_id"`
	MetricName string    `json:"metric_name"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Timestamp  time.Time `json:"timestamp"`
}

// ResourceMetrics is a utilization series for one resource.
type ResourceMetrics struct {
	Metrics     []ResourceMetric `json:"metrics"`
	TimeRange   string           `json:"time_range"`
	Aggregation string           `json:"aggregation"`
}

// UsageCostSummary breaks monthly cost down by provider.
type UsageCostSummary struct {
	TotalCost   float64   `json:"total_cost"`
	AWSCost     float64   `json:"aws_cost"`
	GCPCost     float64   `json:"gcp_cost"`
	AzureCost   float64   `json:"azure_cost"`
	Currency    string    `json:"currency"`
	Period      string    `json:"period"`
	LastUpdated time.Time `json:"last_updated"`
}
