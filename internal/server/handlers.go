package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/internal/common"
	"github.com/nishant-rao/legal-summarizer/internal/entity"
)

// handleUpload accepts a multipart document, stores it, and queues a case.
// POST /api/upload
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	media, err := s.uploads.Validate(header.Filename, header.Size)
	if err != nil {
		if errors.Is(err, common.ErrUnsupportedMedia) {
			s.writeError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path, _, err := s.uploads.Save(header.Filename, file)
	if err != nil {
		s.logger.Error("upload store failed", "filename", header.Filename, "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	c, err := s.controller.Submit(r.Context(), header.Filename, path, media)
	if err != nil {
		s.logger.Error("case submit failed", "filename", header.Filename, "error", err)
		s.writeError(w, http.StatusServiceUnavailable, "could not queue case")
		return
	}

	s.writeJSON(w, http.StatusAccepted, map[string]any{
		"case_id": c.CaseID,
		"status":  c.Status,
		"message": "Case queued for processing",
	})
}

// handleListCases lists case records, optionally filtered by status.
// GET /api/cases?status=&limit=
func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	var status constants.CaseStatus
	if q := r.URL.Query().Get("status"); q != "" {
		status = constants.CaseStatus(q)
		if !status.Valid() {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", q))
			return
		}
	}
	limit := 100
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	cases, err := s.store.ListCases(r.Context(), status, limit)
	if err != nil {
		s.logger.Error("list cases failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not list cases")
		return
	}
	if cases == nil {
		cases = []*entity.Case{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"cases": cases, "count": len(cases)})
}

// handleGetCase returns one case record with its current status.
// GET /api/cases/{caseID}
func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	c, err := s.store.GetCase(r.Context(), caseID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "case not found")
			return
		}
		s.logger.Error("get case failed", "case_id", caseID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not read case")
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

// handleResult returns the full summary for a completed case. A failed case
// yields its status and error; anything not yet terminal is not ready.
// GET /api/result/{caseID}
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	c, err := s.store.GetCase(r.Context(), caseID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "case not found")
			return
		}
		s.logger.Error("get case failed", "case_id", caseID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not read case")
		return
	}

	switch c.Status {
	case constants.StatusFailed:
		s.writeJSON(w, http.StatusOK, map[string]any{
			"case_id": c.CaseID,
			"status":  c.Status,
			"error":   c.Error,
		})
	case constants.StatusCompleted:
		sum, err := s.store.GetSummary(r.Context(), caseID)
		if err != nil {
			// Completed without a readable summary is not exposed as done.
			s.logger.Error("summary missing for completed case", "case_id", caseID, "error", err)
			s.writeError(w, http.StatusNotFound, "Case not processed yet")
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"case_id": c.CaseID,
			"status":  c.Status,
			"summary": sum,
		})
	default:
		s.writeError(w, http.StatusNotFound, "Case not processed yet")
	}
}

type feedbackRequest struct {
	Rating      int             `json:"rating"`
	Comments    string          `json:"comments"`
	Corrections json.RawMessage `json:"corrections"`
}

// handleFeedback records a reviewer rating for a case.
// POST /api/cases/{caseID}/feedback
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	if _, err := s.store.GetCase(r.Context(), caseID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "case not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "could not read case")
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		s.writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	fb := &entity.Feedback{
		CaseID:      caseID,
		Rating:      req.Rating,
		Comments:    req.Comments,
		Corrections: req.Corrections,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.SaveFeedback(r.Context(), fb); err != nil {
		s.logger.Error("save feedback failed", "case_id", caseID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not save feedback")
		return
	}
	if err := s.store.LogMetric(r.Context(), "feedback_rating", float64(req.Rating), caseID); err != nil {
		s.logger.Warn("feedback metric failed", "case_id", caseID, "error", err)
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"id": fb.ID, "case_id": caseID})
}

// handleStats reports case counts and summary averages.
// GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.logger.Error("stats failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not compute stats")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

// handleExport streams an XLSX workbook of completed summaries.
// GET /api/export
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.exporter.ExportSummariesXLSX(r.Context(), 0)
	if err != nil {
		s.logger.Error("export failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not build export")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="case_summaries.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("export write failed", "error", err)
	}
}
