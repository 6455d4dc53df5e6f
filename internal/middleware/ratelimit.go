package middleware

import (
	"encoding/json"
	"net"
	"net/http"

	"lead-bridge/internal/common/logging"
	"lead-bridge/internal/common/ratelimit"
)

// RateLimitMiddleware enforces the inbound rate limit, keyed by client
// IP. Denied requests get a JSON 429 consistent with the rest of the
// error surface.
func RateLimitMiddleware(limiter ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			if !limiter.TryAcquireForKey(key) {
				logging.Warn("rate limit exceeded",
					logging.String("remote_addr", r.RemoteAddr),
					logging.String("path", r.URL.Path),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the caller's address, honoring X-Forwarded-For
// since deployments sit behind a reverse proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for i := 0; i < len(forwarded); i++ {
			if forwarded[i] == ',' {
				return forwarded[:i]
			}
		}
		return forwarded
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
