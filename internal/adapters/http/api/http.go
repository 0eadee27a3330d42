// Package api exposes the record collections over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	service "github.com/okian/agentdesk/internal/app"
	"github.com/okian/agentdesk/internal/domain/model"
	"github.com/okian/agentdesk/internal/domain/query"
	"github.com/okian/agentdesk/pkg/logger"
	"github.com/okian/agentdesk/pkg/metrics"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 10 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	List(kind model.Kind, q query.Query) ([]model.Record, error)
	Facets(kind model.Kind, field string) ([]string, error)
	Upsert(ctx context.Context, kind model.Kind, raw []byte) (model.Record, error)
	Remove(ctx context.Context, kind model.Kind, id string) error

	ExportCSV(kind model.Kind) (string, error)
	ImportCSV(ctx context.Context, kind model.Kind, text string) (int, error)
	ExportJSON() (string, error)
	ImportJSON(ctx context.Context, text string) (service.ImportReport, error)
	EnqueueImport(ctx context.Context, job model.ImportJob) (model.ImportJob, error)

	Branding() model.Branding
	SetBranding(ctx context.Context, b model.Branding) model.Branding
	Session() model.Session
	Login(ctx context.Context, name, role string) (model.Session, error)
	Logout(ctx context.Context)
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) service.Stats
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	deps    Dependencies
	stats   StatsProvider
	origins []string
	logger  logger.Logger
	metrics *metrics.Manager
	router  *chi.Mux
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithCORSOrigins sets the browser origins allowed to call the API.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager. Defaults to the global one.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewServer creates a new API server with all routes registered.
func NewServer(deps Dependencies, stats StatsProvider, opts ...Option) *Server {
	s := &Server{
		deps:    deps,
		stats:   stats,
		origins: []string{"*"},
		metrics: metrics.Global(),
		router:  chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
	}).Handler)
	s.router.Use(s.requestLogger)
	s.router.Use(MetricsMiddleware(s.metrics))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", metricsHandler())
	s.router.Get("/stats", s.handleStats)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/branding", s.handleGetBranding)
		r.Put("/branding", s.handlePutBranding)

		r.Get("/session", s.handleGetSession)
		r.Post("/session", s.handleLogin)
		r.Delete("/session", s.handleLogout)

		r.Get("/backup", s.handleExportBackup)
		r.Post("/backup", s.handleImportBackup)

		r.Route("/{collection}", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handleUpsert)
			r.Get("/facets/{field}", s.handleFacets)
			r.Get("/export.csv", s.handleExportCSV)
			r.Post("/import", s.handleImportCSV)
			r.Delete("/{id}", s.handleDelete)
		})
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug(r.Context(), "http request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", ww.Status()),
			logger.Int("bytes", ww.BytesWritten()),
		)
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// readBody reads the whole request body up to maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return body, nil
}

func writeBodyError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", err)
}

// kindParam resolves the {collection} URL parameter, writing a 404 when it
// names no collection.
func kindParam(w http.ResponseWriter, r *http.Request) (model.Kind, bool) {
	raw := chi.URLParam(r, "collection")
	kind, ok := model.ParseKind(raw)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_collection", fmt.Errorf("%w: %q", service.ErrUnknownKind, raw))
		return "", false
	}
	return kind, true
}

func isAsync(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get("async")) {
	case "1", "true", "yes":
		return true
	}
	return false
}
