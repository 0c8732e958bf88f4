package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/Durga-Talluri/cloudops-pro/pkg/compliance"
	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
)

func (s *Server) handleComplianceReport(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.compliance.Report())
}

func (s *Server) handleGetStandard(w http.ResponseWriter, r *http.Request) {
	st, err := s.compliance.Get(r.PathValue("standard_id"))
	if errors.Is(err, compliance.ErrStandardNotFound) {
		writeError(w, http.StatusNotFound, "Compliance standard not found")
		return
	}
	if err != nil {
		s.internalError(w, r, "Failed to fetch compliance standard", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleComplianceCheck(w http.ResponseWriter, r *http.Request) {
	var req model.ComplianceCheckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := s.compliance.Check(ctx, req)
	if err != nil {
		s.internalError(w, r, "Failed to run compliance check", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleComplianceStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.compliance.Stats())
}

func (s *Server) handleIssuesSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.compliance.IssuesSummary())
}
