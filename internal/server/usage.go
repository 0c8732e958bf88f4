package server

import (
	"errors"
	"net/http"

	"github.com/Durga-Talluri/cloudops-pro/pkg/usage"
)

func (s *Server) handleUsage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.usage.Usage())
}

func (s *Server) handleProviderUsage(w http.ResponseWriter, r *http.Request) {
	resources, err := s.usage.Provider(r.PathValue("provider"))
	if errors.Is(err, usage.ErrProviderNotFound) {
		writeError(w, http.StatusNotFound, "Cloud provider not found")
		return
	}
	if err != nil {
		s.internalError(w, r, "Failed to fetch usage data", err)
		return
	}
	writeJSON(w, http.StatusOK, resources)
}

func (s *Server) handleResourceMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.usage.Metrics(r.PathValue("resource_id"), r.URL.Query().Get("time_range")))
}

func (s *Server) handleUsageCostSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.usage.CostSummary())
}
