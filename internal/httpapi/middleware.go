package httpapi

import (
	"net/http"
	"strings"

	"evdash/internal/auth"
)

// requireAuth verifies the bearer token and stores the caller identity on
// the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success": false, "message": "missing bearer token",
			})
			return
		}
		id, err := s.tokens.Verify(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success": false, "message": "invalid or expired token",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

// identity returns the verified caller; requireAuth guarantees presence on
// every route that reaches a handler.
func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}
