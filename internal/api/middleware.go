package api

import (
	"context"
	"net/http"
	"strings"

	"cryptolab/internal/auth"
)

type contextKey int

const operatorIDKey contextKey = iota

// openPaths mirrors the teacher's AuthInterceptor bypass for
// Register/Login: every other route requires a bearer token.
var openPaths = map[string]bool{
	"/v1/auth/register": true,
	"/v1/auth/login":    true,
}

// AuthMiddleware parses the Authorization header's bearer token and
// stashes the operator id it names in the request context, the HTTP
// counterpart of the teacher's gRPC AuthInterceptor.
func AuthMiddleware(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if openPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "authorization header is not provided")
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")

			claims, err := issuer.ParseToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), operatorIDKey, claims.OperatorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OperatorID retrieves the id AuthMiddleware placed on the request
// context, mirroring the teacher's GetClientID.
func OperatorID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(operatorIDKey).(string)
	return id, ok
}
