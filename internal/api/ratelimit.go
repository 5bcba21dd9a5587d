package api

import (
	"net"
	"net/http"

	"github.com/listenupapp/swatches/internal/http/response"
	"github.com/listenupapp/swatches/internal/logger"
	"github.com/listenupapp/swatches/internal/ratelimit"
)

// RateLimitMiddleware limits the requests selected by match per client IP.
// Returns 429 Too Many Requests with Retry-After when the limit is exceeded.
func RateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, match func(*http.Request) bool, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if match != nil && !match(r) {
				next.ServeHTTP(w, r)
				return
			}

			key := clientIP(r)
			if ok, retryAfter := limiter.Reserve(key); !ok {
				log.Warn("Rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
					"retry_after", retryAfter)
				response.TooManyRequests(w, "Too many requests. Please try again later.", retryAfter, log)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the request's client address without the port.
// middleware.RealIP has already applied X-Forwarded-For and X-Real-IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
