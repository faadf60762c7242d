// Package server exposes a read-only HTTP view over finished and
// in-progress article runs: run listings, per-run revision history, and
// the rendered final article.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/newsdesk-ai/newsdesk/internal/config"
	"github.com/newsdesk-ai/newsdesk/internal/history"
	"github.com/newsdesk-ai/newsdesk/internal/logging"
	"github.com/newsdesk-ai/newsdesk/internal/render"
	"github.com/newsdesk-ai/newsdesk/internal/workflow"
)

// Server serves the run browser API.
type Server struct {
	cfg        config.ServerConfig
	outputDir  string
	store      *history.Store
	renderer   *render.Renderer
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over the given history store and run output
// directory.
func New(cfg config.ServerConfig, outputDir string, store *history.Store, logger *slog.Logger) (*Server, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		cfg:       cfg,
		outputDir: outputDir,
		store:     store,
		renderer:  renderer,
		logger:    logger,
	}
	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/api/runs", s.handleListRuns)
	r.Get("/api/runs/{id}/history", s.handleRunHistory)
	r.Get("/runs/{id}/article", s.handleRunArticle)

	return r
}

// Router returns the router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		s.logger.Error("listing runs failed", "error", err)
		writeError(w, http.StatusInternalServerError, "listing runs failed")
		return
	}
	if runs == nil {
		runs = []history.RunSummary{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRunHistory(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	records, err := s.store.ListByRun(r.Context(), runID)
	if err != nil {
		s.logger.Error("listing run history failed", "run_id", runID, "error", err)
		writeError(w, http.StatusInternalServerError, "listing run history failed")
		return
	}
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, "unknown run")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleRunArticle(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	if runID != filepath.Base(runID) {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	runStore := workflow.OpenRunDir(filepath.Join(s.outputDir, runID))
	data, err := os.ReadFile(runStore.FinalPath())
	if err != nil {
		writeError(w, http.StatusNotFound, "no final article for run")
		return
	}

	markdown := string(data)
	page, err := s.renderer.Render(markdown, render.Title(markdown, runStore.Topic()))
	if err != nil {
		s.logger.Error("rendering article failed", "run_id", runID, "error", err)
		writeError(w, http.StatusInternalServerError, "rendering article failed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.logger.Info("server listening", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
