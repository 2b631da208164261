// Package http exposes the JSON API: authentication, clients, invoices,
// reports, the service catalog, the company profile and the description
// clarifier.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"invoiceflow/internal/auth"
	"invoiceflow/internal/clarify"
	"invoiceflow/internal/core"
	"invoiceflow/internal/services"
	"invoiceflow/internal/store"
)

type contextKey string

const userContextKey contextKey = "current_user"

type Server struct {
	http.Server
	store     store.Store
	auth      *auth.Manager
	invoices  *services.InvoiceService
	clarifier clarify.Clarifier

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// clarifier may be nil; the clarify endpoint then reports a disabled result.
func NewServer(addr string, st store.Store, am *auth.Manager, inv *services.InvoiceService, clarifier clarify.Clarifier) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       st,
		auth:        am,
		invoices:    inv,
		clarifier:   clarifier,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("POST /signup", s.withSecurityHeaders(s.handleSignUp))
	mux.HandleFunc("POST /signin", s.withSecurityHeaders(s.handleSignIn))

	mux.HandleFunc("GET /api/me", s.protected(s.handleMe))

	mux.HandleFunc("GET /api/clients", s.protected(s.handleListClients))
	mux.HandleFunc("POST /api/clients", s.protected(s.handleCreateClient))
	mux.HandleFunc("GET /api/clients/{id}", s.protected(s.handleGetClient))

	mux.HandleFunc("GET /api/invoices", s.protected(s.handleListInvoices))
	mux.HandleFunc("POST /api/invoices", s.protected(s.handleCreateInvoice))
	mux.HandleFunc("GET /api/invoices/{id}", s.protected(s.handleGetInvoice))
	mux.HandleFunc("PUT /api/invoices/{id}", s.protected(s.handleUpdateInvoice))
	mux.HandleFunc("POST /api/invoices/{id}/paid", s.protected(s.handleMarkPaid))
	mux.HandleFunc("GET /api/invoices/{id}/pdf", s.protected(s.handleInvoicePDF))

	mux.HandleFunc("GET /api/dashboard", s.protected(s.handleDashboard))
	mux.HandleFunc("GET /api/reports", s.protected(s.handleReports))
	mux.HandleFunc("GET /api/reports/monthly", s.protected(s.handleMonthlyReport))

	mux.HandleFunc("GET /api/services", s.protected(s.handleServiceCatalog))

	mux.HandleFunc("GET /api/profile", s.protected(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", s.protected(s.handleSaveProfile))

	mux.HandleFunc("POST /api/clarify", s.protected(s.handleClarify))

	return s
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), contextKey("request_id"), requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Writes are rate limited; reads are not.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
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

// protected wraps a handler with the standard middleware plus bearer auth.
func (s *Server) protected(next http.HandlerFunc) http.HandlerFunc {
	return s.withSecurityHeaders(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := s.auth.CurrentUser(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// currentUser returns the authenticated user placed on the context by protected.
func currentUser(r *http.Request) core.User {
	u, _ := r.Context().Value(userContextKey).(core.User)
	return u
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown gracefully shuts down the server and cleanup routines.
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
