// Package server exposes the box search over HTTP.
//
// Routes:
//
//	GET  /healthz   liveness probe
//	GET  /version   build information
//	POST /v1/boxes  run the pipeline on one line of text
//
// Request bodies for /v1/boxes select the box size by preset, explicit
// dimensions or both (dimensions win). Omitted fields fall back to the
// loaded configuration.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/centerbox/internal/config"
	"github.com/matzehuels/centerbox/pkg/buildinfo"
	"github.com/matzehuels/centerbox/pkg/errors"
	"github.com/matzehuels/centerbox/pkg/observability"
	"github.com/matzehuels/centerbox/pkg/pipeline"
)

// maxBodyBytes bounds request bodies; text itself is limited by
// errors.MaxTextLength.
const maxBodyBytes = 64 << 10

// shutdownTimeout is how long in-flight requests get after the context ends.
const shutdownTimeout = 5 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	cfg     config.Config
	logger  *log.Logger
	timeout time.Duration
}

// New creates a server running searches on runner with defaults from cfg.
func New(runner *pipeline.Runner, cfg config.Config, logger *log.Logger) (*Server, error) {
	timeout, err := cfg.ServerTimeout()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{runner: runner, cfg: cfg, logger: logger, timeout: timeout}, nil
}

// Handler returns the router with all middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/boxes", s.handleBoxes)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// boxRequest is the body of POST /v1/boxes.
type boxRequest struct {
	Text           string `json:"text"`
	Preset         string `json:"preset,omitempty"`
	Width          *int   `json:"width,omitempty"`
	MaxLines       *int   `json:"max_lines,omitempty"`
	Best           bool   `json:"best,omitempty"`
	Metric         string `json:"metric,omitempty"`
	SkipBlankLines *bool  `json:"skip_blank_lines,omitempty"`
}

func (s *Server) handleBoxes(w http.ResponseWriter, r *http.Request) {
	var req boxRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	opts, err := s.options(req)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.runner.Execute(ctx, req.Text, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Document())
}

// options merges a request over the configured defaults.
func (s *Server) options(req boxRequest) (pipeline.Options, error) {
	cfg := s.cfg
	if req.Preset != "" {
		cfg.Preset = req.Preset
	}
	opts, err := cfg.Options()
	if err != nil {
		return pipeline.Options{}, err
	}

	if req.Width != nil {
		opts.Width = *req.Width
	}
	if req.MaxLines != nil {
		opts.MaxLines = *req.MaxLines
	}
	if err := errors.ValidateDimensions(opts.Width, opts.MaxLines); err != nil {
		return pipeline.Options{}, err
	}
	if req.Metric != "" {
		opts.Metric = req.Metric
	}
	if req.SkipBlankLines != nil {
		opts.SkipBlankLines = *req.SkipBlankLines
	}
	opts.Best = req.Best
	return opts, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), errorResponse{Code: code, Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// =============================================================================
// Middleware
// =============================================================================

// logRequests logs every request and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, duration)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", duration,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
