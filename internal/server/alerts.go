package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Durga-Talluri/cloudops-pro/pkg/alerting"
	"github.com/Durga-Talluri/cloudops-pro/pkg/model"
	"github.com/Durga-Talluri/cloudops-pro/pkg/storage"
)

// createAlertRequest tells a missing key apart from an empty value.
type createAlertRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Severity    *model.Severity `json:"severity"`
	Resource    *string         `json:"resource"`
	Category    *string         `json:"category"`
	Metadata    map[string]any  `json:"metadata"`
}

func (r createAlertRequest) alertCreate() (model.AlertCreate, error) {
	required := []struct {
		name string
		set  bool
	}{
		{"title", r.Title != nil},
		{"description", r.Description != nil},
		{"severity", r.Severity != nil},
		{"resource", r.Resource != nil},
		{"category", r.Category != nil},
	}
	for _, f := range required {
		if !f.set {
			return model.AlertCreate{}, fmt.Errorf("%s is required", f.name)
		}
	}
	return model.AlertCreate{
		Title:       *r.Title,
		Description: *r.Description,
		Severity:    *r.Severity,
		Resource:    *r.Resource,
		Category:    *r.Category,
		Metadata:    r.Metadata,
	}, nil
}

type bulkAcknowledgeResponse struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updated_count"`
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := queryInt(q, "limit", alerting.DefaultLimit)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	offset, err := queryInt(q, "offset", 0)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	page, err := s.alerts.List(ctx, model.AlertFilter{
		Severity: model.Severity(q.Get("severity")),
		Status:   model.Status(q.Get("status")),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		s.handleAlertError(w, r, "Failed to fetch alerts", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	alert, err := s.alerts.Get(ctx, r.PathValue("id"))
	if err != nil {
		s.handleAlertError(w, r, "Failed to fetch alert", err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var body createAlertRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	req, err := body.alertCreate()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	alert, err := s.alerts.Create(ctx, req)
	if err != nil {
		s.handleAlertError(w, r, "Failed to create alert", err)
		return
	}
	writeJSON(w, http.StatusCreated, alert)
}

func (s *Server) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	var req model.AlertUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	alert, err := s.alerts.UpdateStatus(ctx, r.PathValue("id"), req)
	if err != nil {
		s.handleAlertError(w, r, "Failed to update alert", err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	alert, err := s.alerts.Delete(ctx, r.PathValue("id"))
	if err != nil {
		s.handleAlertError(w, r, "Failed to delete alert", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Alert %s deleted successfully", alert.Title),
	})
}

func (s *Server) handleAlertStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	stats, err := s.alerts.Stats(ctx)
	if err != nil {
		s.handleAlertError(w, r, "Failed to fetch alert stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleBulkAcknowledge(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if err := decodeJSON(w, r, &ids); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	n, err := s.alerts.BulkAcknowledge(ctx, ids)
	if err != nil {
		s.handleAlertError(w, r, "Failed to acknowledge alerts", err)
		return
	}
	writeJSON(w, http.StatusOK, bulkAcknowledgeResponse{
		Message:      fmt.Sprintf("Successfully acknowledged %d alerts", n),
		UpdatedCount: n,
	})
}

// handleAlertError maps alert service errors to responses.
func (s *Server) handleAlertError(w http.ResponseWriter, r *http.Request, detail string, err error) {
	switch {
	case errors.Is(err, storage.ErrAlertNotFound):
		writeError(w, http.StatusNotFound, "Alert not found")
	case errors.Is(err, alerting.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.internalError(w, r, detail, err)
	}
}
