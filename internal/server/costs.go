package server

import (
	"context"
	"net/http"

	"github.com/Durga-Talluri/cloudops-pro/pkg/costs"
	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
)

func (s *Server) handleCostAnalysis(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := costs.DefaultRequest()
	if tr := q.Get("time_range"); tr != "" {
		req.TimeRange = tr
	}

	var err error
	if req.IncludePredictions, err = queryBool(q, "include_predictions", true); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.IncludeOptimizations, err = queryBool(q, "include_optimizations", true); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.writeAnalysis(w, r, req)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req := costs.DefaultRequest()
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.writeAnalysis(w, r, req)
}

func (s *Server) writeAnalysis(w http.ResponseWriter, r *http.Request, req model.CostAnalysisRequest) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, s.costs.Analyze(ctx, req))
}

func (s *Server) handleCostSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.costs.Summary())
}

func (s *Server) handleOptimizations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q, "limit", costs.DefaultOptimizationLimit)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.costs.Optimizations(q.Get("category"), q.Get("impact"), limit))
}

func (s *Server) handleNextWeek(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.costs.PredictNextWeek())
}
