package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/recipebox/recipebox-api/internal/crypto"
)

type contextKey string

const userIDKey contextKey = "userID"

// authSchemes are the accepted Authorization prefixes.
var authSchemes = []string{"Bearer ", "Token "}

// JWTAuth returns middleware that resolves the caller from the Authorization
// header. Requests without a valid token are rejected with 401.
func JWTAuth(tokens *crypto.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "authentication credentials were not provided")
				return
			}

			var token string
			for _, scheme := range authSchemes {
				if t, found := strings.CutPrefix(authHeader, scheme); found {
					token = strings.TrimSpace(t)
					break
				}
			}
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// WithUserID returns a context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
