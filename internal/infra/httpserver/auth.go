package httpserver

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const _bearerPrefix = "Bearer "

// BearerAuth guards a handler with a shared-secret bearer token check.
// Rejections are part of normal operation and are not logged as errors.
func BearerAuth(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, _bearerPrefix) {
			ReplyWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		token := strings.TrimPrefix(authHeader, _bearerPrefix)
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			ReplyWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		next.ServeHTTP(w, r)
	}
}
