package http

import (
	"context"
	"net/http"
	"strings"

	"spendlog/internal/core"
)

type contextKey string

const principalKey contextKey = "principal"

// requireAuth resolves the bearer token into a principal and stores it in the
// request context. Requests without a valid token never reach the handler.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, r, core.ErrUnauthenticated)
			return
		}

		token = strings.TrimSpace(token)
		principal, ok := s.tokenCache.Get(token)
		if !ok {
			verified, err := s.tokens.Verify(token)
			if err != nil {
				writeError(w, r, err)
				return
			}
			s.tokenCache.Set(token, verified)
			principal = verified
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next(w, r.WithContext(ctx))
	}
}

// principalFrom returns the authenticated principal stored by requireAuth,
// or nil when the request was not authenticated.
func principalFrom(ctx context.Context) *core.Principal {
	if p, ok := ctx.Value(principalKey).(core.Principal); ok {
		return &p
	}
	return nil
}
