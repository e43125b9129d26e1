// Package server provides the HTTP API for lawdex.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hanbeop/lawdex/internal/config"
	"github.com/hanbeop/lawdex/internal/engine"
	"github.com/hanbeop/lawdex/internal/models"
	"github.com/hanbeop/lawdex/internal/storage"
)

// StatuteCollector gathers statutes from the law portal. Satisfied by
// collector.Collector; a fake stands in for tests.
type StatuteCollector interface {
	Collect(ctx context.Context, keywords []string) ([]models.Statute, error)
}

// Server is the HTTP server for the lawdex API.
type Server struct {
	engine    *engine.Engine
	collector StatuteCollector
	store     storage.StatuteStore
	config    *config.ServerConfig
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies. collector may be
// nil, in which case the collect endpoint responds 503.
func NewServer(
	eng *engine.Engine,
	col StatuteCollector,
	store storage.StatuteStore,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:    eng,
		collector: col,
		store:     store,
		config:    cfg,
		logger:    logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/analyze", s.handleAnalyze)
	r.Get("/api/v1/summary", s.handleSummary)
	r.Get("/api/v1/statutes", s.handleStatutes)
	r.Post("/api/v1/collect", s.handleCollect)
	r.Post("/api/v1/reload", s.handleReload)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
