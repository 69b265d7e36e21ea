// Package web serves datasets as interactive views over HTTP.
//
// Each view is an engine held in a session store. Gestures arrive as JSON
// POSTs and answer with the recomputed view; exports stream the filtered,
// sorted rows as a CSV download.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/gridview/internal/config"
	"github.com/JonMunkholm/gridview/internal/core"
	mw "github.com/JonMunkholm/gridview/internal/web/middleware"
	"github.com/JonMunkholm/gridview/internal/web/templates"
)

// sweepInterval is how often idle views are checked.
const sweepInterval = time.Minute

// Server is the HTTP server for the view engine.
type Server struct {
	catalog  *core.Catalog
	cfg      *config.Config
	sessions *SessionStore
	exports  *ExportLimiter
	actions  *ActionLog
	router   *chi.Mux
	server   *http.Server

	stop     context.CancelFunc
	stopOnce sync.Once
}

// NewServer creates a server over the catalog. Background work (idle view
// sweeps, rate limiter cleanup) runs until Shutdown.
func NewServer(catalog *core.Catalog, cfg *config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		catalog:  catalog,
		cfg:      cfg,
		sessions: NewSessionStore(cfg.View.SessionTTL, cfg.View.MaxSessions),
		exports:  NewExportLimiter(cfg.Export.MaxConcurrent, cfg.Export.MaxWaitTime),
		actions:  NewActionLog(defaultActionLogSize),
		router:   chi.NewRouter(),
		stop:     cancel,
	}
	s.setupMiddleware(ctx)
	s.setupRoutes(ctx)

	go s.sessions.Run(ctx, sweepInterval)
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware(ctx context.Context) {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(ctx, s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(ctx context.Context) {
	// Pages
	s.router.Get("/", s.handleDashboard)
	s.router.Post("/datasets/{key}/open", s.handleOpenPage)
	s.router.Get("/view/{viewID}", s.handleViewPage)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/static/*", http.FileServerFS(templates.Static))

	// Exports get their own, tighter budget
	exportLimit := func(next http.Handler) http.Handler { return next }
	if s.cfg.Rate.Enabled {
		exportLimit = newRateLimiter(ctx, s.cfg.Rate.ExportLimit, time.Minute).middleware
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(&s.cfg.Security))

		r.Get("/datasets", s.handleListDatasets)
		r.Post("/datasets/{key}/views", s.handleCreateView)
		r.Get("/actions", s.handleListActions)

		r.Route("/views/{viewID}", func(r chi.Router) {
			r.Get("/", s.handleGetView)
			r.Delete("/", s.handleDeleteView)

			// Gestures
			r.Post("/search", s.handleSearch)
			r.Post("/filter", s.handleToggleFilter)
			r.Post("/filter/clear", s.handleClearFilter)
			r.Post("/sort", s.handleSort)
			r.Post("/page", s.handlePage)
			r.Post("/page-size", s.handlePageSize)
			r.Post("/select", s.handleSelect)
			r.Post("/select-all", s.handleSelectAll)
			r.Post("/selection/clear", s.handleClearSelection)
			r.Post("/expand", s.handleExpand)
			r.Post("/collapse", s.handleCollapse)
			r.Post("/reset", s.handleReset)

			r.Get("/filter-values/{column}", s.handleFilterValues)
			r.Post("/rows/{rowID}/{action}", s.handleRowAction)
			r.With(exportLimit).Get("/export", s.handleExport)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown waits for running exports, then gracefully stops the server and
// its background work.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(s.stop)

	if n := s.exports.ActiveCount(); n > 0 {
		slog.Info("waiting for exports to complete", "active", n)
		if err := s.exports.WaitForDrain(ctx); err != nil {
			slog.Warn("exports did not complete in time", "error", err)
		}
	}

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// render writes an HTML component with the given status.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Pages load their stylesheet and gesture script from /static
			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:")
			}

			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
// Stale visitors are dropped until ctx is done.
func newRateLimiter(ctx context.Context, rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	go rl.cleanup(ctx)
	return rl
}

// cleanup removes stale visitor entries every window.
func (rl *rateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastReset) > rl.window*2 {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{
			tokens:    rl.rate - 1, // consume one token
			lastReset: time.Now(),
		}
		return true
	}

	// Reset tokens if window has passed
	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	if v.tokens <= 0 {
		return false
	}

	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by client IP.
// RemoteAddr has already been rewritten by TrustedRealIP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		if !rl.allow(ip) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeError writes a JSON error response for failures that happen before a
// handler runs. The message is mapped like any other error.
func writeError(w http.ResponseWriter, status int, message string) {
	msg := core.MapError(errors.New(message))
	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
