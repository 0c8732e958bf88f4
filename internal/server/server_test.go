package server_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/internal/metrics"
	"github.com/Durga-Talluri/cloudops-pro/internal/server"
	"github.com/Durga-Talluri/cloudops-pro/pkg/alerting"
	"github.com/Durga-Talluri/cloudops-pro/pkg/compliance"
	"github.com/Durga-Talluri/cloudops-pro/pkg/costs"
	"github.com/Durga-Talluri/cloudops-pro/pkg/fixtures"
	"github.com/Durga-Talluri/cloudops-pro/pkg/generator"
	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
	"github.com/Durga-Talluri/cloudops-pro/pkg/narrator"
	"github.com/Durga-Talluri/cloudops-pro/pkg/storage"
	"github.com/Durga-Talluri/cloudops-pro/pkg/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dashboardOrigin = "http://localhost:3000"

func setupServer(t *testing.T) (http.Handler, *metrics.Metrics) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	now := time.Now()

	ds, err := fixtures.Load()
	require.NoError(t, err)

	m := metrics.New()

	alerts := alerting.NewService(storage.NewMemory(storage.NewSequentialIDs()), logger, alerting.WithRecorder(m))
	seeds, err := ds.AlertsAt(now)
	require.NoError(t, err)
	require.NoError(t, alerts.Seed(t.Context(), seeds))

	standards, err := ds.StandardsAt(now)
	require.NoError(t, err)

	resources := map[string][]model.CloudResource{}
	for _, p := range usage.Providers {
		rs, err := ds.ResourcesAt(p, now)
		require.NoError(t, err)
		resources[p] = rs
	}

	rng := generator.New(1)
	srv := server.NewServer(server.Services{
		Alerts:     alerts,
		Costs:      costs.NewService(ds.CostHistory, ds.Optimizations, rng, logger),
		Compliance: compliance.NewService(standards, rng, logger, compliance.WithRecorder(m)),
		Usage:      usage.NewService(resources, rng, logger),
	}, logger,
		server.WithMetrics(m),
		server.WithCORSOrigins(dashboardOrigin),
		server.WithVersion("test"),
	)
	return srv.Handler(), m
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["detail"]
}

func TestServer_Root(t *testing.T) {
	h, _ := setupServer(t)

	w := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, map[string]string{"message": "CloudOps Pro API", "version": "test", "status": "healthy"}, decode[map[string]string](t, w))

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/nope", "").Code)
}

func TestServer_Health(t *testing.T) {
	h, _ := setupServer(t)

	w := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "test", resp["version"])
	assert.NotEmpty(t, resp["timestamp"])
}

func TestServer_ListAlerts(t *testing.T) {
	h, _ := setupServer(t)

	for _, path := range []string{"/api/v1/alerts", "/api/v1/alerts/"} {
		w := do(t, h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)

		page := decode[model.AlertPage](t, w)
		assert.Len(t, page.Alerts, 7)
		assert.Equal(t, 7, page.TotalCount)
		assert.Equal(t, 2, page.CriticalCount)
		assert.Equal(t, 4, page.WarningCount)
		assert.Equal(t, 1, page.InfoCount)
		assert.Equal(t, "1", page.Alerts[0].ID)
		assert.Equal(t, "High CPU Usage", page.Alerts[0].Title)
	}
}

func TestServer_ListAlerts_Filters(t *testing.T) {
	h, _ := setupServer(t)

	w := do(t, h, http.MethodGet, "/api/v1/alerts?severity=warning&status=active", "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[model.AlertPage](t, w)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 3, page.WarningCount)
	assert.Zero(t, page.CriticalCount)
	for _, a := range page.Alerts {
		assert.Equal(t, model.SeverityWarning, a.Severity)
		assert.Equal(t, model.StatusActive, a.Status)
	}

	w = do(t, h, http.MethodGet, "/api/v1/alerts?limit=2&offset=6", "")
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[model.AlertPage](t, w)
	assert.Equal(t, 7, page.TotalCount)
	require.Len(t, page.Alerts, 1)
	assert.Equal(t, "7", page.Alerts[0].ID)

	w = do(t, h, http.MethodGet, "/api/v1/alerts?offset=50", "")
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[model.AlertPage](t, w)
	assert.NotNil(t, page.Alerts)
	assert.Empty(t, page.Alerts)
	assert.Equal(t, 7, page.TotalCount)
}

func TestServer_ListAlerts_Invalid(t *testing.T) {
	h, _ := setupServer(t)

	for _, q := range []string{"limit=abc", "limit=-1", "offset=-5", "severity=urgent", "status=closed"} {
		w := do(t, h, http.MethodGet, "/api/v1/alerts?"+q, "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, q)
		assert.NotEmpty(t, detail(t, w), q)
	}
}

func TestServer_GetAlert(t *testing.T) {
	h, _ := setupServer(t)

	w := do(t, h, http.MethodGet, "/api/v1/alerts/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	alert := decode[model.Alert](t, w)
	assert.Equal(t, "Database Connection Pool Exhausted", alert.Title)
	assert.Nil(t, alert.UpdatedAt)
	assert.Equal(t, 95.0, alert.Metadata["connection_count"])

	w = do(t, h, http.MethodGet, "/api/v1/alerts/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Alert not found", detail(t, w))
}

func TestServer_CreateAlert(t *testing.T) {
	h, _ := setupServer(t)

	body := `{"title":"Queue backlog","description":"Orders queue above 10k","severity":"warning","resource":"sqs-orders","category":"Messaging","metadata":{"depth":10400}}`
	w := do(t, h, http.MethodPost, "/api/v1/alerts", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	alert := decode[model.Alert](t, w)
	assert.Equal(t, "8", alert.ID)
	assert.Equal(t, model.StatusActive, alert.Status)
	assert.Equal(t, model.SeverityWarning, alert.Severity)
	assert.WithinDuration(t, time.Now(), alert.Timestamp, 5*time.Second)

	w = do(t, h, http.MethodGet, "/api/v1/alerts/8", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/alerts/", `{"title":"x","description":"","severity":"info","resource":"r","category":"c"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestServer_CreateAlert_EmptyTitle(t *testing.T) {
	h, _ := setupServer(t)

	w := do(t, h, http.MethodPost, "/api/v1/alerts", `{"title":"","description":"d","severity":"info","resource":"r","category":"c"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	alert := decode[model.Alert](t, w)
	assert.Empty(t, alert.Title)
	assert.Equal(t, "r", alert.Resource)
}

func TestServer_CreateAlert_Invalid(t *testing.T) {
	h, _ := setupServer(t)

	tests := map[string]struct {
		body   string
		detail string
	}{
		"bad severity":        {body: `{"title":"x","description":"d","severity":"urgent","resource":"r","category":"c"}`},
		"missing title":       {body: `{"description":"d","severity":"info","resource":"r","category":"c"}`, detail: "title is required"},
		"missing description": {body: `{"title":"x","severity":"info","resource":"r","category":"c"}`, detail: "description is required"},
		"missing severity":    {body: `{"title":"x","description":"d","resource":"r","category":"c"}`, detail: "severity is required"},
		"missing resource":    {body: `{"title":"x","description":"d","severity":"info","category":"c"}`, detail: "resource is required"},
		"null category":       {body: `{"title":"x","description":"d","severity":"info","resource":"r","category":null}`, detail: "category is required"},
		"malformed":           {body: `{"title":`},
		"empty body":          {body: ""},
	}
	for name, tt := range tests {
		w := do(t, h, http.MethodPost, "/api/v1/alerts", tt.body)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, name)
		if tt.detail != "" {
			assert.Equal(t, tt.detail, detail(t, w), name)
		}
	}

	stats := decode[model.AlertStats](t, do(t, h, http.MethodGet, "/api/v1/alerts/summary/stats", ""))
	assert.Equal(t, 7, stats.TotalAlerts)
}

func TestServer_ResolveDecrementsActive(t *testing.T) {
	h, _ := setupServer(t)

	before := decode[model.AlertStats](t, do(t, h, http.MethodGet, "/api/v1/alerts/summary/stats", ""))
	assert.Equal(t, 7, before.TotalAlerts)
	assert.Equal(t, 5, before.ActiveAlerts)
	assert.Equal(t, 2, before.CriticalAlerts)
	assert.Equal(t, 3, before.WarningAlerts)

	w := do(t, h, http.MethodPut, "/api/v1/alerts/1", `{"status":"resolved"}`)
	require.Equal(t, http.StatusOK, w.Code)
	alert := decode[model.Alert](t, w)
	assert.Equal(t, model.StatusResolved, alert.Status)
	require.NotNil(t, alert.UpdatedAt)

	after := decode[model.AlertStats](t, do(t, h, http.MethodGet, "/api/v1/alerts/summary/stats", ""))
	assert.Equal(t, before.ActiveAlerts-1, after.ActiveAlerts)
	assert.Equal(t, before.CriticalAlerts-1, after.CriticalAlerts)
}

func TestServer_UpdateAlert_Errors(t *testing.T) {
	h, _ := setupServer(t)

	w := do(t, h, http.MethodPut, "/api/v1/alerts/99", `{"status":"resolved"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPut, "/api/v1/alerts/1", `{"status":"closed"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodPut, "/api/v1/alerts/1", `{"status":"acknowledged","notes":"on it"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_DeleteAlert(t *testing.T) {
	h, _ := setupServer(t)

	w := do(t, h, http.MethodDelete, "/api/v1/alerts/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alert High CPU Usage deleted successfully", decode[map[string]string](t, w)["message"])

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/alerts/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/v1/alerts/1", "").Code)

	// Ids are never reused after a delete.
	w = do(t, h, http.MethodPost, "/api/v1/alerts", `{"title":"after delete","description":"","severity":"info","resource":"r","category":"c"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "8", decode[model.Alert](t, w).ID)
}

func TestServer_BulkAcknowledge(t *testing.T) {
	h, _ := setupServer(t)

	w := do(t, h, http.MethodPost, "/api/v1/alerts/bulk-acknowledge", `["1","2","99"]`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, "Successfully acknowledged 2 alerts", resp["message"])
	assert.Equal(t, 2.0, resp["updated_count"])

	alert := decode[model.Alert](t, do(t, h, http.MethodGet, "/api/v1/alerts/1", ""))
	assert.Equal(t, model.StatusAcknowledged, alert.Status)
	assert.Nil(t, alert.UpdatedAt)

	w = do(t, h, http.MethodPost, "/api/v1/alerts/bulk-acknowledge", `{"ids":["1"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_BulkAcknowledge_RepeatedIDs(t *testing.T) {
	h, _ := setupServer(t)

	w := do(t, h, http.MethodPost, "/api/v1/alerts/bulk-acknowledge", `["1","1","2"]`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, "Successfully acknowledged 3 alerts", resp["message"])
	assert.Equal(t, 3.0, resp["updated_count"])
}

func TestServer_CostAnalysis_FallbackInsights(t *testing.T) {
	h, _ := setupServer(t)

	for _, path := range []string{"/api/v1/ai-cost", "/api/v1/ai-cost/"} {
		w := do(t, h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)

		analysis := decode[model.CostAnalysis](t, w)
		assert.Equal(t, narrator.FallbackUnconfigured, analysis.AIInsights)
		assert.Len(t, analysis.CostData, 7)
		assert.Equal(t, 3189.0, analysis.CurrentCost)
		assert.Len(t, analysis.OptimizationSuggestions, 6)
	}
}

func TestServer_CostAnalysis_Params(t *testing.T) {
	h, _ := setupServer(t)

	w := do(t, h, http.MethodGet, "/api/v1/ai-cost?time_range=90d&include_predictions=false&include_optimizations=false", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"predicted"`)
	analysis := decode[model.CostAnalysis](t, w)
	assert.Len(t, analysis.CostData, 90)
	assert.Empty(t, analysis.OptimizationSuggestions)
	assert.Zero(t, analysis.TotalSavings)

	w = do(t, h, http.MethodGet, "/api/v1/ai-cost?time_range=7d&include_predictions=false", "")
	require.Equal(t, http.StatusOK, w.Code)
	analysis = decode[model.CostAnalysis](t, w)
	require.Len(t, analysis.CostData, 7)
	require.NotNil(t, analysis.CostData[0].Predicted)
	assert.Equal(t, 2900.0, *analysis.CostData[0].Predicted)

	w = do(t, h, http.MethodGet, "/api/v1/ai-cost?include_predictions=maybe", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_Analyze(t *testing.T) {
	h, _ := setupServer(t)

	w := do(t, h, http.MethodPost, "/api/v1/ai-cost/analyze", `{"time_range":"30d"}`)
	require.Equal(t, http.StatusOK, w.Code)
	analysis := decode[model.CostAnalysis](t, w)
	require.Len(t, analysis.CostData, 30)
	assert.NotNil(t, analysis.CostData[0].Predicted)
	assert.Len(t, analysis.OptimizationSuggestions, 6)

	w = do(t, h, http.MethodPost, "/api/v1/ai-cost/analyze", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_CostSummaryAndOptimizations(t *testing.T) {
	h, _ := setupServer(t)

	summary := decode[model.CostSummary](t, do(t, h, http.MethodGet, "/api/v1/ai-cost/summary", ""))
	assert.Equal(t, 95670.0, summary.MonthlyProjection)
	assert.Equal(t, 133.0, summary.Change)

	w := do(t, h, http.MethodGet, "/api/v1/ai-cost/optimizations?category=compute&limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	opts := decode[[]model.OptimizationSuggestion](t, w)
	require.Len(t, opts, 2)
	assert.Equal(t, 450.0, opts[0].Savings)
	assert.Equal(t, 340.0, opts[1].Savings)

	w = do(t, h, http.MethodGet, "/api/v1/ai-cost/optimizations?limit=ten", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	forecast := decode[model.CostForecast](t, do(t, h, http.MethodGet, "/api/v1/ai-cost/predictions/next-week", ""))
	assert.Len(t, forecast.Predictions, 7)
	assert.Positive(t, forecast.TotalWeeklyCost)
}

func TestServer_Compliance(t *testing.T) {
	h, _ := setupServer(t)

	for _, path := range []string{"/api/v1/compliance", "/api/v1/compliance/"} {
		report := decode[model.ComplianceReport](t, do(t, h, http.MethodGet, path, ""))
		assert.Len(t, report.Standards, 5, path)
		assert.Equal(t, 92, report.OverallScore, path)
	}

	w := do(t, h, http.MethodGet, "/api/v1/compliance/pci", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PCI DSS", decode[model.ComplianceStandard](t, w).Name)

	w = do(t, h, http.MethodGet, "/api/v1/compliance/nist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Compliance standard not found", detail(t, w))

	w = do(t, h, http.MethodPost, "/api/v1/compliance/check", `{"standard_ids":["pci","gdpr"],"force_refresh":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	checked := decode[model.ComplianceReport](t, w)
	require.Len(t, checked.Standards, 2)
	assert.Equal(t, (87+89)/2, checked.OverallScore)
	assert.WithinDuration(t, time.Now(), checked.Standards[0].LastChecked, 5*time.Second)

	stats := decode[model.ComplianceStats](t, do(t, h, http.MethodGet, "/api/v1/compliance/summary/stats", ""))
	assert.Equal(t, 5, stats.TotalStandards)
	assert.Equal(t, 7, stats.TotalIssues)
	assert.Equal(t, 2, stats.HighIssues)

	issues := decode[model.IssuesSummary](t, do(t, h, http.MethodGet, "/api/v1/compliance/issues/summary", ""))
	assert.Equal(t, 7, issues.TotalIssues)
	assert.Len(t, issues.IssuesBySeverity["medium"], 4)
	assert.Equal(t, 2, issues.IssuesByStandard["gdpr"])
}

func TestServer_Usage(t *testing.T) {
	h, _ := setupServer(t)

	all := decode[model.CloudUsage](t, do(t, h, http.MethodGet, "/api/v1/usage", ""))
	assert.Equal(t, 1155.0, all.TotalCost)
	assert.Len(t, all.AWS, 4)

	w := do(t, h, http.MethodGet, "/api/v1/usage/gcp", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.CloudResource](t, w), 3)

	w = do(t, h, http.MethodGet, "/api/v1/usage/oracle", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cloud provider not found", detail(t, w))

	metricsResp := decode[model.ResourceMetrics](t, do(t, h, http.MethodGet, "/api/v1/usage/metrics/aws-vm1?time_range=6h", ""))
	assert.Len(t, metricsResp.Metrics, 48)
	assert.Equal(t, "6h", metricsResp.TimeRange)
	assert.Equal(t, "hourly", metricsResp.Aggregation)

	summary := decode[model.UsageCostSummary](t, do(t, h, http.MethodGet, "/api/v1/usage/cost-summary", ""))
	assert.Equal(t, 523.0, summary.AWSCost)
	assert.Equal(t, "USD", summary.Currency)
	assert.Equal(t, "monthly", summary.Period)
}

func TestServer_Metrics(t *testing.T) {
	h, _ := setupServer(t)

	do(t, h, http.MethodGet, "/api/v1/alerts", "")
	do(t, h, http.MethodGet, "/api/v1/alerts/3", "")
	do(t, h, http.MethodPost, "/api/v1/alerts/bulk-acknowledge", `["1"]`)

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `cloudops_http_requests_total{code="200",method="GET",route="GET /api/v1/alerts"} 1`)
	assert.Contains(t, body, `route="GET /api/v1/alerts/{id}"`)
	assert.Contains(t, body, `cloudops_alert_events_total{action="acknowledged"} 1`)
	assert.Contains(t, body, `cloudops_compliance_score{standard="hipaa"} 98`)
}

func TestServer_CORS(t *testing.T) {
	h, _ := setupServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/alerts", nil)
	req.Header.Set("Origin", dashboardOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, dashboardOrigin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	assert.Equal(t, "Authorization, Content-Type", w.Header().Get("Access-Control-Allow-Headers"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
	req.Header.Set("Origin", dashboardOrigin)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dashboardOrigin, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/alerts", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RecoversPanics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// A server without a cost service panics on cost routes.
	h := server.NewServer(server.Services{}, logger).Handler()

	w := do(t, h, http.MethodGet, "/api/v1/ai-cost/summary", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", detail(t, w))

	// The server keeps serving afterwards.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
}
