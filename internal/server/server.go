// Package server exposes a discovered corpus as a read-only JSON API for
// dashboards and tooling. It never executes corpus queries.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/clinbench-io/clinbench/internal/corpus"
	"github.com/clinbench-io/clinbench/internal/manifest"
)

// Server serves corpus metadata over HTTP.
type Server struct {
	corpus   *corpus.Corpus
	manifest *manifest.Manifest
	host     string
	port     int
	logger   *slog.Logger
}

// Config holds configuration for the corpus server.
type Config struct {
	Corpus *corpus.Corpus
	Host   string
	Port   int
	Logger *slog.Logger
}

// NewServer creates a new corpus server instance. The manifest is built
// once up front; the corpus is static for the life of the process.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		corpus:   cfg.Corpus,
		manifest: manifest.Build(cfg.Corpus),
		host:     cfg.Host,
		port:     cfg.Port,
		logger:   logger,
	}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		s.requestLogger,
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/summary", s.handleSummary)
		r.Get("/splits", s.handleSplits)
		r.Get("/categories", s.handleCategories)
		r.Get("/queries", s.handleQueries)
		r.Get("/queries/{split}/{category}/{difficulty}/{id}", s.handleQuery)
	})

	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	s.logger.Info("starting corpus server", "addr", fmt.Sprintf("http://%s", addr))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down corpus server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger logs each request through the structured logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
