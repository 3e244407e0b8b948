package rest

import (
	"net/http"
	"strings"
)

// BearerAuth returns a middleware that validates the Authorization header
// against the configured API token.
// If the token is missing or invalid, it responds 401 Unauthorized.
// If valid, it calls the next handler with the original request.
func BearerAuth(validToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token != validToken {
				respondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
