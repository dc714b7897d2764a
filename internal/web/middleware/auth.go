package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/postdesk/internal/config"
	"github.com/JonMunkholm/postdesk/internal/logging"
)

// APIKeyAuth returns middleware that requires one of the configured API keys,
// sent as X-API-Key or as an Authorization bearer token. With RequireAPIKey
// off every request passes; with it on and no keys configured every request
// is rejected.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	if !cfg.RequireAPIKey {
		return func(next http.Handler) http.Handler { return next }
	}

	digests := make([][sha256.Size]byte, len(cfg.APIKeys))
	for i, k := range cfg.APIKeys {
		digests[i] = sha256.Sum256([]byte(k))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := requestAPIKey(r)
			if key == "" {
				logging.FromContext(r.Context()).Warn("auth: missing API key",
					"path", r.URL.Path,
					"method", r.Method,
				)
				writeAuthError(w, r, http.StatusUnauthorized, "missing API key", "AUTH001")
				return
			}

			if !matchesAny(sha256.Sum256([]byte(key)), digests) {
				logging.FromContext(r.Context()).Warn("auth: invalid API key",
					"path", r.URL.Path,
					"method", r.Method,
				)
				writeAuthError(w, r, http.StatusForbidden, "invalid API key", "AUTH002")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestAPIKey returns the key from X-API-Key, falling back to a bearer
// token in Authorization.
func requestAPIKey(r *http.Request) string {
	if k := strings.TrimSpace(r.Header.Get("X-API-Key")); k != "" {
		return k
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// matchesAny compares digests in constant time and always visits every
// configured key. Hashing first keeps the comparison length fixed.
func matchesAny(got [sha256.Size]byte, digests [][sha256.Size]byte) bool {
	found := 0
	for i := range digests {
		found |= subtle.ConstantTimeCompare(got[:], digests[i][:])
	}
	return found == 1
}

// writeAuthError writes a JSON error in the same shape as the API handlers.
func writeAuthError(w http.ResponseWriter, r *http.Request, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":      message,
		"message":    message,
		"code":       code,
		"request_id": middleware.GetReqID(r.Context()),
	})
}
