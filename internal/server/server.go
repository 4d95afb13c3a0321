// Package server exposes the case API over HTTP.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nishant-rao/legal-summarizer/internal/async"
	"github.com/nishant-rao/legal-summarizer/internal/export"
	"github.com/nishant-rao/legal-summarizer/internal/ingest"
	"github.com/nishant-rao/legal-summarizer/internal/repository"
)

type Server struct {
	store      repository.CaseStore
	controller *async.Controller
	uploads    *ingest.Service
	exporter   *export.Service
	logger     *slog.Logger
}

func New(store repository.CaseStore, controller *async.Controller, uploads *ingest.Service, exporter *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:      store,
		controller: controller,
		uploads:    uploads,
		exporter:   exporter,
		logger:     logger,
	}
}

// Router builds the chi mux with all case endpoints mounted under /api.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/cases", s.handleListCases)
		r.Get("/cases/{caseID}", s.handleGetCase)
		r.Post("/cases/{caseID}/feedback", s.handleFeedback)
		r.Get("/result/{caseID}", s.handleResult)
		r.Get("/stats", s.handleStats)
		r.Get("/export", s.handleExport)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
