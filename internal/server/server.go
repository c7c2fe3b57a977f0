// Package server exposes the proposal checks over HTTP as asynchronous jobs.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hyperifyio/proposalcheck/internal/extract"
	"github.com/hyperifyio/proposalcheck/internal/report"
)

// Config holds the HTTP-facing settings.
type Config struct {
	APIKey         string
	MaxUploadBytes int64
	Report         report.Options
}

// Server is the HTTP API server.
type Server struct {
	router       chi.Router
	orchestrator *Orchestrator
	cfg          Config
}

// New creates and configures the HTTP server.
func New(orch *Orchestrator, cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = extract.MaxInputBytes
	}
	s := &Server{orchestrator: orch, cfg: cfg}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey))

		r.Post("/v1/checks", s.handleSubmit)
		r.Get("/v1/checks/{jobID}", s.handleStatus)
		r.Get("/v1/checks/{jobID}/report", s.handleReport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
