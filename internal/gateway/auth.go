package gateway

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/concierge-chat/concierge/internal/config"
)

// authMiddleware guards the admin routes. It accepts either the configured
// bearer token or the configured basic credentials; every comparison is
// constant-time.
func authMiddleware(cfg config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authorized(r, cfg) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authorized(r *http.Request, cfg config.AuthConfig) bool {
	header := r.Header.Get("Authorization")
	if header == "" {
		return false
	}

	if cfg.BearerToken != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && secureEqual(token, cfg.BearerToken) {
			return true
		}
	}

	if cfg.BasicUser != "" && cfg.BasicPass != "" {
		if user, pass, ok := r.BasicAuth(); ok {
			return secureEqual(user, cfg.BasicUser) && secureEqual(pass, cfg.BasicPass)
		}
	}

	return false
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
