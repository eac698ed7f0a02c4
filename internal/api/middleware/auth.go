package middleware

import (
	"context"
	"net/http"
)

type Authenticator interface {
	EnsureAuthenticated(ctx context.Context) error
}

// RequireAuth rejects the request with 401 unless a session is held or can
// be recovered from stored credentials.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := auth.EnsureAuthenticated(r.Context())
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "Unauthorized", "Valid authentication session required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
