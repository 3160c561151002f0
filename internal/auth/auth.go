// Package auth guards the tracker's metrics listener with a bearer token.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Config holds authentication configuration. An empty Token disables auth.
type Config struct {
	Token string
}

// Enabled reports whether requests must carry the token.
func (c Config) Enabled() bool {
	return c.Token != ""
}

// exemptPaths stay public so liveness probes work without credentials.
var exemptPaths = map[string]bool{
	"/healthz": true,
}

// Middleware rejects requests to non-exempt paths that lack
// "Authorization: Bearer <token>".
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if exemptPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Token)) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="issview"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
