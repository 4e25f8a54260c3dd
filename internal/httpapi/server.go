// Package httpapi exposes manifest parsing and registry lookups over HTTP.
//
// Endpoints:
//
//	POST /v1/manifests/parse  — parse a requirements file, return requirements as JSON
//	POST /v1/manifests/check  — parse and validate, report problems per line
//	GET  /v1/packages/{name}  — registry metadata for one package
//	GET  /healthz             — liveness probe
package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/reqsmith/reqsmith/pkg/pep440"
	"github.com/reqsmith/reqsmith/pkg/pypi"
)

// Registry is the subset of the PyPI client the API needs.
type Registry interface {
	FetchPackage(ctx context.Context, name string, refresh bool) (*pypi.PackageInfo, error)
	LatestVersion(ctx context.Context, name string, refresh bool) (*pep440.Version, error)
}

// Server is the HTTP API server.
type Server struct {
	registry Registry
	logger   *log.Logger
	router   chi.Router

	// MaxBodyBytes caps manifest upload size.
	MaxBodyBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMaxBodyBytes caps the request body size for manifest uploads.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.MaxBodyBytes = n }
}

// New creates a Server backed by the given registry.
func New(registry Registry, opts ...Option) *Server {
	s := &Server{
		registry:     registry,
		logger:       log.New(io.Discard),
		MaxBodyBytes: 1 << 20, // 1 MiB of requirements is plenty
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/manifests/parse", s.handleParse)
		r.Post("/manifests/check", s.handleCheck)
		r.Get("/packages/{name}", s.handlePackage)
	})
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server on addr until ctx is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
