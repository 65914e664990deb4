// Package web owns the HTTP boundary: routing, request/response types and
// field-level validation, independent of the core's internal types.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"reddit-repost-assistant/internal/usecase"
)

type Server struct {
	checkUC *usecase.CheckUseCase
	log     *zerolog.Logger
}

func NewServer(checkUC *usecase.CheckUseCase, logger *zerolog.Logger) *Server {
	return &Server{checkUC: checkUC, log: logger}
}

// Router builds the chi router for the whole API surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/checks", func(r chi.Router) {
		r.Post("/start", s.handleStartCheck)
		r.Get("/", s.handleListChecks)
		r.Get("/{jobID}", s.handleGetCheck)
		r.Get("/{jobID}/results", s.handleGetResults)
	})

	return r
}
