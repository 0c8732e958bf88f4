// Package fixtures holds the embedded mock datasets served by the API.
package fixtures

import (
	"embed"
	"fmt"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

// SeedAlert is an alert template whose timestamp is relative to load time.
type SeedAlert struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Severity    string         `yaml:"severity"`
	Status      string         `yaml:"status"`
	Age         string         `yaml:"age"`
	Resource    string         `yaml:"resource"`
	Category    string         `yaml:"category"`
	Metadata    map[string]any `yaml:"metadata"`
}

// SeedStandard is a compliance standard whose last check is relative to load time.
type SeedStandard struct {
	ID          string                  `yaml:"id"`
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description"`
	Status      string                  `yaml:"status"`
	Score       int                     `yaml:"score"`
	CheckedAge  string                  `yaml:"checked_age"`
	Issues      []model.ComplianceIssue `yaml:"issues"`
}

// SeedResource is a cloud resource whose creation time is relative to load time.
type SeedResource struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Type   string  `yaml:"type"`
	Status string  `yaml:"status"`
	Region string  `yaml:"region"`
	Cost   float64 `yaml:"cost"`
	Age    string  `yaml:"age"`
}

// Dataset is every embedded fixture, parsed.
type Dataset struct {
	Alerts        []SeedAlert                    `yaml:"alerts"`
	CostHistory   []model.CostDataPoint          `yaml:"history"`
	Optimizations []model.OptimizationSuggestion `yaml:"optimizations"`
	Standards     []SeedStandard                 `yaml:"standards"`
	Resources     map[string][]SeedResource      `yaml:"resources"`
}

// Load parses the embedded datasets.
func Load() (*Dataset, error) {
	var ds Dataset
	for _, name := range []string{"alerts.yaml", "costs.yaml", "compliance.yaml", "resources.yaml"} {
		data, err := files.ReadFile("data/" + name)
		if err != nil {
			return nil, fmt.Errorf("read fixture %s: %w", name, err)
		}
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("parse fixture %s: %w", name, err)
		}
	}
	return &ds, nil
}

// Pricing returns the raw model pricing document.
func Pricing() []byte {
	data, err := files.ReadFile("data/pricing.yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded pricing fixture missing: %v", err))
	}
	return data
}

// AlertsAt materializes the seed alerts with timestamps relative to now.
func (d *Dataset) AlertsAt(now time.Time) ([]model.Alert, error) {
	alerts := make([]model.Alert, 0, len(d.Alerts))
	for _, s := range d.Alerts {
		severity, err := model.ParseSeverity(s.Severity)
		if err != nil {
			return nil, fmt.Errorf("seed alert %q: %w", s.Title, err)
		}
		status, err := model.ParseStatus(s.Status)
		if err != nil {
			return nil, fmt.Errorf("seed alert %q: %w", s.Title, err)
		}
		age, err := time.ParseDuration(s.Age)
		if err != nil {
			return nil, fmt.Errorf("seed alert %q age: %w", s.Title, err)
		}
		alerts = append(alerts, model.Alert{
			Title:       s.Title,
			Description: s.Description,
			Severity:    severity,
			Status:      status,
			Timestamp:   now.Add(-age),
			Resource:    s.Resource,
			Category:    s.Category,
			Metadata:    s.Metadata,
		})
	}
	return alerts, nil
}

// StandardsAt materializes the compliance standards with check times relative to now.
func (d *Dataset) StandardsAt(now time.Time) ([]model.ComplianceStandard, error) {
	standards := make([]model.ComplianceStandard, 0, len(d.Standards))
	for _, s := range d.Standards {
		age, err := time.ParseDuration(s.CheckedAge)
		if err != nil {
			return nil, fmt.Errorf("standard %s checked_age: %w", s.ID, err)
		}
		issues := make([]model.ComplianceIssue, len(s.Issues))
		copy(issues, s.Issues)
		standards = append(standards, model.ComplianceStandard{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Score:       s.Score,
			Status:      model.ComplianceStatus(s.Status),
			LastChecked: now.Add(-age),
			Issues:      issues,
		})
	}
	return standards, nil
}

// ResourcesAt materializes the resources of one provider relative to now.
func (d *Dataset) ResourcesAt(provider string, now time.Time) ([]model.CloudResource, error) {
	seeds := d.Resources[provider]
	resources := make([]model.CloudResource, 0, len(seeds))
	for _, s := range seeds {
		age, err := time.ParseDuration(s.Age)
		if err != nil {
			return nil, fmt.Errorf("resource %s age: %w", s.ID, err)
		}
		resources = append(resources, model.CloudResource{
			ID:        s.ID,
			Name:      s.Name,
			Type:      s.Type,
			Status:    s.Status,
			Provider:  provider,
			Region:    s.Region,
			Cost:      s.Cost,
			CreatedAt: now.Add(-age),
			UpdatedAt: now,
		})
	}
	return resources, nil
}
