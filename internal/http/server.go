// Package http is the JSON API boundary: auth endpoints, bearer-scoped
// expense CRUD, and the stats endpoint. Handlers translate between wire
// payloads and core types; all business rules live below this package.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"spendlog/internal/auth"
	"spendlog/internal/cache"
	"spendlog/internal/core"
	"spendlog/internal/ledger"
	"spendlog/internal/middleware/ratelimit"
	"spendlog/internal/middleware/security"
	"spendlog/internal/middleware/trace"
)

type Server struct {
	http.Server

	auth   *auth.Service
	ledger *ledger.Service
	tokens *auth.TokenIssuer

	limiter      *ratelimit.Limiter
	tokenCache   *cache.LRUCache[core.Principal]
	now          func() time.Time
	shutdownOnce sync.Once
}

// Token verification results are cached briefly. Tokens are immutable and
// there is no revocation, so a short TTL only bounds memory, not correctness.
const (
	tokenCacheSize = 1000
	tokenCacheTTL  = time.Minute
)

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, authSvc *auth.Service, ledgerSvc *ledger.Service, tokens *auth.TokenIssuer) *Server {
	s := &Server{
		auth:       authSvc,
		ledger:     ledgerSvc,
		tokens:     tokens,
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tokenCache: cache.NewLRUCache[core.Principal](tokenCacheSize, tokenCacheTTL),
		now:        time.Now,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/signin", s.handleSignin)

	mux.HandleFunc("GET /api/expenses", s.requireAuth(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.requireAuth(s.handleCreateExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.requireAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.requireAuth(s.handleDeleteExpense))
	mux.HandleFunc("GET /api/expenses/stats", s.requireAuth(s.handleStats))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	extractor := security.NewClientIPExtractor()
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(extractor.ExtractClientIP)

	handler := tracer.Middleware(
		headers.Middleware(
			s.limiter.Middleware(extractor.ExtractClientIP, rateLimited)(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func rateLimited(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
}

// Shutdown stops the HTTP server and the limiter's background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
