package model

import (
	"fmt"
	"time"
)

// Severity classifies how urgent an alert is. It is fixed at creation.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank orders severities so thresholds can be compared. Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool { return s.Rank() > 0 }

// ParseSeverity validates a raw severity value.
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid severity %q: must be one of critical, warning, info", raw)
	}
	return s, nil
}

// Status is the lifecycle stage of an alert. Any status may follow any other.
type Status string

const (
	StatusActive       Status = "active"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusAcknowledged, StatusResolved:
		return true
	}
	return false
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q: must be one of active, acknowledged, resolved", raw)
	}
	return s, nil
}

// Alert is an observed operational condition tracked through its lifecycle.
type Alert struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Severity    Severity       `json:"severity"`
	Status      Status         `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
	Resource    string         `json:"resource"`
	Category    string         `json:"category"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// AlertCreate is the client payload for a new alert.
type AlertCreate struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Severity    Severity       `json:"severity"`
	Resource    string         `json:"resource"`
	Category    string         `json:"category"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// AlertUpdate is the client payload for a status change.
type AlertUpdate struct {
	Status Status `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// AlertFilter selects and pages alerts. Empty enum fields match everything.
type AlertFilter struct {
	Severity Severity
	Status   Status
	Limit    int
	Offset   int
}

// AlertPage is one page of filtered alerts plus counts over the whole filtered set.
type AlertPage struct {
	Alerts        []Alert   `json:"alerts"`
	TotalCount    int       `json:"total_count"`
	CriticalCount int       `json:"critical_count"`
	WarningCount  int       `json:"warning_count"`
	InfoCount     int       `json:"info_count"`
	LastUpdated   time.Time `json:"last_updated"`
}

// AlertStats summarizes the store.
type AlertStats struct {
	TotalAlerts    int       `json:"total_alerts"`
	ActiveAlerts   int       `json:"active_alerts"`
	CriticalAlerts int       `json:"critical_alerts"`
	WarningAlerts  int       `json:"warning_alerts"`
	ResolvedToday  int       `json:"resolved_today"`
	LastUpdated    time.Time `json:"last_updated"`
}

// DayBounds returns the start and end of the calendar day containing t, in t's location.
func DayBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
