package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"birthdaybook/internal/ctxkeys"
	"birthdaybook/internal/service"
)

const bearerPrefix = "Bearer "

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// RequireAuth gates a handler behind a valid bearer token. On success the
// account id and full claim set are attached to the request context before
// the handler runs; on any failure the handler is never invoked.
func RequireAuth(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, bearerPrefix) {
				unauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := authService.VerifyToken(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			accountID, _ := claims["sub"].(string)
			if accountID == "" {
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := ctxkeys.WithAccountID(r.Context(), accountID)
			ctx = ctxkeys.WithClaims(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}
