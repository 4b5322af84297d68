// Package server exposes the scout service over HTTP: a JSON API for
// harvesting and extraction, rendered figure digests, and the saved files
// themselves.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/scout"
)

// Server wires the scout service into a chi router.
type Server struct {
	svc    *scout.Service
	logger *slog.Logger
}

// New creates a Server.
func New(svc *scout.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, logger: logger}
}

// Router builds the full HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.RegisterHTTP(r)
	return r
}

// RegisterHTTP registers the scout endpoints on an existing router.
//
// Paper-addressed reads take the id as a query parameter rather than a path
// segment: old-style arXiv ids (hep-th/9901001) carry a slash.
func (s *Server) RegisterHTTP(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/harvest", s.handleHarvest)
		r.Post("/extract", s.handleExtract)
		r.Post("/extract-day", s.handleExtractDay)

		r.Get("/papers", s.handlePapers)
		r.Get("/paper", s.handlePaper)
		r.Get("/figures", s.handleFigures)
		r.Get("/digest", s.handleDigest)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}", s.handleRun)
		r.Get("/search", s.handleSearch)
		r.Get("/stats", s.handleStats)
	})

	r.Get("/files/*", s.handleFile)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// writeServiceError maps service sentinels onto status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scout.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, scout.ErrUnknownPaper), errors.Is(err, scout.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
