// Package http serves the ledger views and mutations as a JSON API.
package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"katha/internal/log"
	"katha/internal/services"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	// RateLimit is the number of mutating requests a client may send per minute.
	RateLimit int
	Logger    *log.Logger
	// Checks run on /readyz, keyed by dependency name.
	Checks map[string]ReadinessCheck
	// Sheet names used by the xlsx download.
	LedgerSheet  string
	SummarySheet string
}

type Server struct {
	http.Server
	svc         *services.LedgerService
	logger      *log.Logger
	slog        *log.StructuredLogger
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	checks      map[string]ReadinessCheck
	sheetNames  [2]string
	started     time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc *services.LedgerService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.Config{Component: log.ComponentHTTP})
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 60
	}
	if opts.LedgerSheet == "" {
		opts.LedgerSheet = "Ledger"
	}
	if opts.SummarySheet == "" {
		opts.SummarySheet = "Kathas"
	}

	s := &Server{
		svc:         svc,
		logger:      opts.Logger,
		slog:        log.NewStructuredLogger(opts.Logger),
		rateLimiter: newRateLimiter(opts.RateLimit, time.Minute),
		metrics:     &securityMetrics{},
		checks:      opts.Checks,
		sheetNames:  [2]string{opts.LedgerSheet, opts.SummarySheet},
		started:     time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("GET /api/ledger", s.withSecurityHeaders(s.handleLedger))
	mux.HandleFunc("GET /api/kathas", s.withSecurityHeaders(s.handleListKathas))
	mux.HandleFunc("POST /api/kathas", s.withSecurityHeaders(s.handleCreateKatha))
	mux.HandleFunc("POST /api/entries", s.withSecurityHeaders(s.handleCreateEntry))
	mux.HandleFunc("DELETE /api/entries/{id}", s.withSecurityHeaders(s.handleDeleteEntry))
	mux.HandleFunc("GET /api/insights", s.withSecurityHeaders(s.handleInsights))
	mux.HandleFunc("GET /api/categories", s.withSecurityHeaders(s.handleCategories))
	mux.HandleFunc("GET /api/export.xlsx", s.withSecurityHeaders(s.handleExportXLSX))

	var handler http.Handler = mux
	handler = log.RequestIDMiddleware(func(r *http.Request) string {
		return r.Header.Get("X-Request-ID")
	})(handler)
	handler = withRequestID(handler)
	handler = log.Middleware(opts.Logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops background routines and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// ListenAndServe runs the server until Shutdown, treating a clean shutdown
// as success.
func (s *Server) ListenAndServe() error {
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// withSecurityHeaders adds security headers, rate limiting of mutating
// requests and request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		clientIP := extractClientIP(r)

		s.slog.LogHTTPStart(ctx, r, clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			log.FromContext(ctx).WarnContext(ctx, "Suspicious request",
				log.FieldComponent, log.ComponentSecurity,
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path)
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, s.metrics) {
			log.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				log.FieldComponent, log.ComponentRateLimit,
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			TooManyRequestsError(60).Write(rw)
		} else {
			next(rw, r)
		}

		s.slog.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// responseWriter captures the status code for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// withRequestID keeps a well-formed X-Request-ID or replaces it with a
// generated one, echoing it on the response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if !validRequestID(id) {
			id = generateRequestID()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}
