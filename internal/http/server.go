// Package http serves the ledger's JSON command and query API.
package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"financepro/internal/log"
	"financepro/internal/report"
	"financepro/internal/services"
)

type ServerOptions struct {
	// RateLimit caps mutating requests per client per minute; 0 means 60.
	RateLimit int
	Logger    *log.Logger
}

type Server struct {
	http.Server
	svc         *services.LedgerService
	reports     *report.Renderer
	rateLimiter *rateLimiter
	logger      *log.Logger
	started     time.Time
	suspicious  int64

	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.LedgerService, reports *report.Renderer, opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	mux := http.NewServeMux()

	s := &Server{
		svc:         svc,
		reports:     reports,
		rateLimiter: newRateLimiter(opts.RateLimit),
		logger:      logger.WithComponent(log.ComponentHTTP),
		started:     time.Now(),
		stopCleanup: make(chan struct{}),
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.withMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/verify", s.handleVerify)
	mux.HandleFunc("GET /api/report.csv", s.handleReport)

	mux.HandleFunc("POST /api/transactions", s.handleApplyTransaction)
	mux.HandleFunc("PATCH /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("POST /api/transfers", s.handleTransfer)
	mux.HandleFunc("DELETE /api/transfers/{id}", s.handleDeleteTransfer)

	mux.HandleFunc("PUT /api/methods", s.handleSaveMethod)
	mux.HandleFunc("POST /api/methods/finish-setup", s.handleFinishMethodsSetup)
	mux.HandleFunc("PUT /api/debts", s.handleReplaceDebts)
	mux.HandleFunc("PUT /api/sections", s.handleReplaceSections)

	mux.HandleFunc("POST /api/notifications/read", s.handleMarkNotificationsRead)
	mux.HandleFunc("DELETE /api/notifications/{id}", s.handleDismissNotification)
	mux.HandleFunc("POST /api/reminders/check", s.handleCheckReminders)

	mux.HandleFunc("POST /api/undo", s.handleUndo)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/onboarding", s.handleOnboarding)
	mux.HandleFunc("POST /api/onboarding/complete", s.handleCompleteOnboarding)

	go s.startCleanup()
	return s
}

func (s *Server) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.rateLimiter.cleanupStaleEntries(); n > 0 {
				s.logger.Debug("Rate limiter entries cleaned", "count", n)
			}
		case <-s.stopCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and its cleanup routine.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// withMiddleware tags each request with an id and a request scoped logger,
// sets security headers, rate limits mutations and logs completion.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	scoped := log.RequestMiddleware(s.logger, func(r *http.Request) string {
		return r.Header.Get("X-Request-ID")
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		logger := log.FromContext(ctx)
		clientIP := extractClientIP(r)

		setSecurityHeaders(w.Header())
		w.Header().Set("X-Request-ID", r.Header.Get("X-Request-ID"))

		if isSuspicious(r) {
			atomic.AddInt64(&s.suspicious, 1)
			logger.WarnContext(ctx, "Suspicious request",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
			)
		}

		if isMutation(r.Method) && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded", log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		log.LogHTTPEnd(ctx, logger, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Set("X-Request-ID", requestID(r))
		scoped.ServeHTTP(w, r)
	})
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
