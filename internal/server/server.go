// Package server provides the HTTP API for Shoplore.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shoplore/shoplore/internal/config"
	"github.com/shoplore/shoplore/internal/indexer"
	"github.com/shoplore/shoplore/internal/keyword"
	"github.com/shoplore/shoplore/internal/metrics"
	"github.com/shoplore/shoplore/internal/search"
	"github.com/shoplore/shoplore/internal/storage"
)

// Server is the HTTP server for the Shoplore API.
type Server struct {
	engine       *search.Engine
	indexer      *indexer.Indexer
	storage      storage.Storage
	keywordIndex keyword.KeywordIndex
	config       *config.Config
	logger       *zap.Logger
	server       *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	idx *indexer.Indexer,
	store storage.Storage,
	keywordIndex keyword.KeywordIndex,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:       engine,
		indexer:      idx,
		storage:      store,
		keywordIndex: keywordIndex,
		config:       cfg,
		logger:       logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(metrics.Middleware())

	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/listings", s.handleIndexListing)
	r.Get("/api/v1/listings", s.handleListListings)
	r.Get("/api/v1/listings/{id}", s.handleGetListing)
	r.Delete("/api/v1/listings/{id}", s.handleDeleteListing)
	r.Post("/api/v1/reindex", s.handleReindex)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
