package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/internal/metrics"
	"github.com/Durga-Talluri/cloudops-pro/pkg/alerting"
	"github.com/Durga-Talluri/cloudops-pro/pkg/compliance"
	"github.com/Durga-Talluri/cloudops-pro/pkg/costs"
	"github.com/Durga-Talluri/cloudops-pro/pkg/usage"
)

const apiPrefix = "/api/v1"

// requestTimeout bounds store and narrator work per request.
const requestTimeout = 30 * time.Second

// Services are the domain services behind the API.
type Services struct {
	Alerts     *alerting.Service
	Costs      *costs.Service
	Compliance *compliance.Service
	Usage      *usage.Service
}

// Server provides the CloudOps Pro REST API.
type Server struct {
	alerts     *alerting.Service
	costs      *costs.Service
	compliance *compliance.Service
	usage      *usage.Service

	metrics     *metrics.Metrics
	corsOrigins []string
	version     string

	mux    *http.ServeMux
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithCORSOrigins allows cross-origin requests from the given origins.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.corsOrigins = append(s.corsOrigins, origins...) }
}

// WithVersion sets the version reported by / and /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer creates an API server.
func NewServer(svc Services, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		alerts:     svc.Alerts,
		costs:      svc.Costs,
		compliance: svc.Compliance,
		usage:      svc.Usage,
		version:    "1.0.0",
		mux:        http.NewServeMux(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	// Collection routes answer with and without a trailing slash.
	s.handleCollection("GET "+apiPrefix+"/alerts", s.handleListAlerts)
	s.handleCollection("POST "+apiPrefix+"/alerts", s.handleCreateAlert)
	s.mux.HandleFunc("GET "+apiPrefix+"/alerts/summary/stats", s.handleAlertStats)
	s.mux.HandleFunc("POST "+apiPrefix+"/alerts/bulk-acknowledge", s.handleBulkAcknowledge)
	s.mux.HandleFunc("GET "+apiPrefix+"/alerts/{id}", s.handleGetAlert)
	s.mux.HandleFunc("PUT "+apiPrefix+"/alerts/{id}", s.handleUpdateAlert)
	s.mux.HandleFunc("DELETE "+apiPrefix+"/alerts/{id}", s.handleDeleteAlert)

	s.handleCollection("GET "+apiPrefix+"/ai-cost", s.handleCostAnalysis)
	s.mux.HandleFunc("GET "+apiPrefix+"/ai-cost/summary", s.handleCostSummary)
	s.mux.HandleFunc("GET "+apiPrefix+"/ai-cost/optimizations", s.handleOptimizations)
	s.mux.HandleFunc("POST "+apiPrefix+"/ai-cost/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET "+apiPrefix+"/ai-cost/predictions/next-week", s.handleNextWeek)

	s.handleCollection("GET "+apiPrefix+"/compliance", s.handleComplianceReport)
	s.mux.HandleFunc("POST "+apiPrefix+"/compliance/check", s.handleComplianceCheck)
	s.mux.HandleFunc("GET "+apiPrefix+"/compliance/summary/stats", s.handleComplianceStats)
	s.mux.HandleFunc("GET "+apiPrefix+"/compliance/issues/summary", s.handleIssuesSummary)
	s.mux.HandleFunc("GET "+apiPrefix+"/compliance/{standard_id}", s.handleGetStandard)

	s.handleCollection("GET "+apiPrefix+"/usage", s.handleUsage)
	s.mux.HandleFunc("GET "+apiPrefix+"/usage/cost-summary", s.handleUsageCostSummary)
	s.mux.HandleFunc("GET "+apiPrefix+"/usage/metrics/{resource_id}", s.handleResourceMetrics)
	s.mux.HandleFunc("GET "+apiPrefix+"/usage/{provider}", s.handleProviderUsage)
}

func (s *Server) handleCollection(pattern string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, h)
	s.mux.HandleFunc(pattern+"/{$}", h)
}

// Handler returns the HTTP handler for this server, with middleware applied.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = s.recoverPanics(h)
	h = s.observe(h)
	h = s.cors(h)
	return h
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "CloudOps Pro API",
		"version": s.version,
		"status":  "healthy",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   s.version,
	})
}
