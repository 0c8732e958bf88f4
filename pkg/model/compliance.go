package model

import "time"

// ComplianceStatus is the pass state of a standard.
type ComplianceStatus string

const (
	CompliancePass    ComplianceStatus = "pass"
	ComplianceWarning ComplianceStatus = "warning"
	ComplianceFail    ComplianceStatus = "fail"
)

// Issue severities for compliance findings.
const (
	IssueCritical = "critical"
	IssueHigh     = "high"
	IssueMedium   = "medium"
	IssueLow      = "low"
)

// ComplianceIssue is a single finding against a standard.
type ComplianceIssue struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Severity    string `json:"severity" yaml:"severity"`
	Description string `json:"description" yaml:"description"`
	Remediation string `json:"remediation" yaml:"remediation"`
	Status      string `json:"status" yaml:"status"`
}

// ComplianceStandard is a framework (SOC 2, HIPAA, ...) with its current score.
type ComplianceStandard struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Score       int               `json:"score"`
	Status      ComplianceStatus  `json:"status"`
	LastChecked time.Time         `json:"last_checked"`
	Issues      []ComplianceIssue `json:"issues"`
}

// ComplianceReport lists standards with their integer mean score.
type ComplianceReport struct {
	Standards    []ComplianceStandard `json:"standards"`
	OverallScore int                  `json:"overall_score"`
	LastUpdated  time.Time            `json:"last_updated"`
}

// ComplianceCheckRequest selects standards to re-check. Empty IDs means all.
type ComplianceCheckRequest struct {
	StandardIDs  []string `json:"standard_ids,omitempty"`
	ForceRefresh bool     `json:"force_refresh"`
}

// ComplianceStats aggregates standards and issues.
type ComplianceStats struct {
	TotalStandards   int       `json:"total_standards"`
	PassingStandards int       `json:"passing_standards"`
	WarningStandards int       `json:"warning_standards"`
	FailingStandards int       `json:"failing_standards"`
	TotalIssues      int       `json:"total_issues"`
	CriticalIssues   int       `json:"critical_issues"`
	HighIssues       int       `json:"high_issues"`
	OverallScore     int       `json:"overall_score"`
	LastUpdated      time.Time `json:"last_updated"`
}

// IssueRef is an issue flattened with the standard it belongs to.
type IssueRef struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Severity   string `json:"severity"`
	Standard   string `json:"standard"`
	StandardID string `json:"standard_id"`
	Status     string `json:"status"`
}

// IssuesSummary groups issues by severity and counts them per standard.
type IssuesSummary struct {
	TotalIssues      int                   `json:"total_issues"`
	IssuesBySeverity map[string][]IssueRef `json:"issues_by_severity"`
	IssuesByStandard map[string]int        `json:"issues_by_standard"`
	LastUpdated      time.Time             `json:"last_updated"`
}
