// Package http wires the application's services into the web surface:
// routing, sessions, rate limiting, tracing and response caching.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fiscal/internal/auth"
	"fiscal/internal/cache"
	"fiscal/internal/core"
	"fiscal/internal/insights"
	"fiscal/internal/ledger"
	"fiscal/internal/middleware/ratelimit"
	"fiscal/internal/middleware/security"
	"fiscal/internal/middleware/trace"
)

type analyticsPayload = map[string]map[string]core.Money

// Options configures a Server. Insights may be nil when no API key is set.
type Options struct {
	Addr          string
	Ledger        *ledger.Service
	Auth          *auth.Service
	Sessions      *auth.SessionManager
	Insights      *insights.Service
	SecureCookies bool

	RateLimitPerMinute int
}

type Server struct {
	http.Server

	ledger        *ledger.Service
	auth          *auth.Service
	sessions      *auth.SessionManager
	insights      *insights.Service
	secureCookies bool

	rateLimiter *ratelimit.Limiter
	ipResolver  *security.IPResolver

	// Per-account analytics responses, invalidated on every mutation.
	analyticsCache *cache.LRUCache[analyticsPayload]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		ledger:        opts.Ledger,
		auth:          opts.Auth,
		sessions:      opts.Sessions,
		insights:      opts.Insights,
		secureCookies: opts.SecureCookies,

		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		ipResolver: security.NewIPResolver(),

		analyticsCache: cache.NewLRUCache[analyticsPayload](500, 5*time.Minute),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.analyticsCache)
	s.cacheManager.Register(opts.Sessions)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /logout", s.withSession(s.handleLogout))
	mux.HandleFunc("POST /account/delete", s.withSession(s.handleAccountDelete))
	mux.HandleFunc("GET /user-info", s.withSession(s.handleGetUserInfo))
	mux.HandleFunc("POST /user-info", s.withSession(s.handleUpdateUserInfo))

	mux.HandleFunc("POST /events", s.withSession(s.handleCreateEvent))
	mux.HandleFunc("DELETE /events/{id}", s.withSession(s.handleDeleteEvent))
	mux.HandleFunc("PUT /events/{id}", s.withSession(s.handleEditEvent))
	mux.HandleFunc("GET /events", s.withSession(s.handleListEvents))
	mux.HandleFunc("GET /events/search/{term}", s.withSession(s.handleSearchEvents))
	mux.HandleFunc("GET /categories", s.withSession(s.handleCategories))

	mux.HandleFunc("GET /analytics", s.withSession(s.handleAnalytics))
	mux.HandleFunc("POST /ai-analysis", s.withSession(s.handleAIAnalysis))

	secHeaders := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.ipResolver.ExtractClientIP)

	handler := secHeaders.Middleware(tracer.Middleware(s.limitMutations(mux)))

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// limitMutations applies the rate limiter to state-changing methods only.
func (s *Server) limitMutations(next http.Handler) http.Handler {
	limited := s.rateLimiter.Middleware(s.ipResolver.ExtractClientIP, nil)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// Shutdown stops the HTTP listener and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) invalidateAnalytics(email string) {
	s.analyticsCache.Delete(email)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// withSession resolves the session cookie to an account email and stores it
// in the request context. Unauthenticated requests get a 401.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.SessionCookieName)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		email, ok := s.sessions.Lookup(cookie.Value)
		if !ok {
			slog.DebugContext(r.Context(), "Session rejected", "path", r.URL.Path)
			s.clearSessionCookie(w)
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next(w, r.WithContext(withEmail(r.Context(), email)))
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
