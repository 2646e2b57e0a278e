// Package http serves the dashboard JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"daftar/internal/assistant"
	"daftar/internal/auth"
	"daftar/internal/backend"
	"daftar/internal/core"
	applog "daftar/internal/log"
)

type Server struct {
	http.Server
	store         backend.Backend
	assistant     *assistant.Assistant
	verifier      *auth.Verifier
	calculator    core.Calculator
	upcomingLimit int
	locale        core.Locale
	rateLimiter   *rateLimiter

	shutdownOnce sync.Once
}

// Options carries the request-independent knobs handlers need.
type Options struct {
	TaxRateBP           int
	UpcomingChecksLimit int
	Locale              core.Locale
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes.
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed.
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute.
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. The verifier may be nil: requests then run as the local user.
func NewServer(addr string, store backend.Backend, asst *assistant.Assistant, verifier *auth.Verifier, opts Options) *Server {
	mux := http.NewServeMux()

	locale := opts.Locale
	if locale != core.LocaleFA {
		locale = core.LocaleEN
	}

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:         store,
		assistant:     asst,
		verifier:      verifier,
		calculator:    core.NewCalculator(int64(opts.TaxRateBP)),
		upcomingLimit: opts.UpcomingChecksLimit,
		locale:        locale,
		rateLimiter:   newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/summary", s.withSecurityHeaders(s.handleSummary))

	mux.HandleFunc("GET /api/transactions", s.withSecurityHeaders(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withSecurityHeaders(s.handleCreateTransaction))

	mux.HandleFunc("GET /api/checks", s.withSecurityHeaders(s.handleListChecks))
	mux.HandleFunc("POST /api/checks", s.withSecurityHeaders(s.handleCreateCheck))
	mux.HandleFunc("POST /api/checks/{id}/status", s.withSecurityHeaders(s.handleUpdateCheckStatus))

	mux.HandleFunc("GET /api/products", s.withSecurityHeaders(s.handleListProducts))
	mux.HandleFunc("POST /api/products", s.withSecurityHeaders(s.handleCreateProduct))
	mux.HandleFunc("POST /api/products/{id}/adjust", s.withSecurityHeaders(s.handleAdjustStock))
	mux.HandleFunc("GET /api/products/value", s.withSecurityHeaders(s.handleInventoryValue))

	mux.HandleFunc("GET /api/invoices", s.withSecurityHeaders(s.handleListInvoices))
	mux.HandleFunc("POST /api/invoice/compute", s.withSecurityHeaders(s.handleComputeInvoice))

	mux.HandleFunc("POST /api/assistant/ask", s.withSecurityHeaders(s.handleAssistantAsk))

	return s
}

// Shutdown stops the server and the rate limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, bearer session
// extraction and request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)

		// Honor a proxy-supplied id so log lines correlate across hops.
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = generateRequestID()
		}
		w.Header().Set("X-Request-Id", requestID)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		ctx = applog.WithRequestID(ctx, requestID)
		ctx = s.withBearerSession(ctx, r)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit writes only.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// withBearerSession attaches the verified session when a bearer token is
// present. Invalid tokens are ignored; the request falls back to the local
// user rather than failing.
func (s *Server) withBearerSession(ctx context.Context, r *http.Request) context.Context {
	if s.verifier == nil {
		return ctx
	}
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return ctx
	}
	session, err := s.verifier.ParseToken(header[len(prefix):])
	if err != nil {
		slog.WarnContext(ctx, "Invalid bearer token, treating request as local", "error", err)
		return ctx
	}
	return auth.WithSession(ctx, session)
}

type contextKey string

const requestIDKey contextKey = "request_id"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
