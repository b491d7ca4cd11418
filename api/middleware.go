package api

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL         = 5 * time.Minute
	limiterCleanupInterval = time.Minute
)

// publicPaths skip bearer authentication (still rate limited).
var publicPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// BearerAuth validates "Authorization: Bearer <token>" using a
// constant-time comparison.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				WriteError(w, http.StatusUnauthorized, "Missing Authorization header",
					"Request requires Bearer token authentication")
				return
			}

			const prefix = "Bearer "
			if len(auth) < len(prefix) || auth[:len(prefix)] != prefix {
				WriteError(w, http.StatusUnauthorized, "Invalid Authorization header format",
					"Expected format: Authorization: Bearer <token>")
				return
			}

			if subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(token)) != 1 {
				WriteError(w, http.StatusUnauthorized, "Invalid Bearer token",
					"The provided token is not valid")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimit applies a token bucket per client IP. Idle limiters are swept
// in the background until ctx is cancelled.
func RateLimit(ctx context.Context, requestsPerSecond int, burstSize int) func(http.Handler) http.Handler {
	limiters := make(map[string]*limiterEntry)
	var mu sync.Mutex

	go func() {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				mu.Lock()
				for ip, e := range limiters {
					if now.Sub(e.lastAccess) > limiterIdleTTL {
						delete(limiters, ip)
					}
				}
				mu.Unlock()
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := r.RemoteAddr
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				clientIP = host
			}

			mu.Lock()
			entry, ok := limiters[clientIP]
			if !ok {
				entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize)}
				limiters[clientIP] = entry
			}
			entry.lastAccess = time.Now()
			mu.Unlock()

			if !entry.limiter.Allow() {
				WriteError(w, http.StatusTooManyRequests, "Rate limit exceeded",
					fmt.Sprintf("More than %d requests per second allowed", requestsPerSecond))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Logger logs every request with method, path, status and duration.
func Logger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrapped.status).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}

// responseWriter captures the status code for logging.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

// SecurityHeaders adds conservative headers to every response.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Content-Security-Policy", "default-src 'none'")
			w.Header().Set("Referrer-Policy", "no-referrer")
			next.ServeHTTP(w, r)
		})
	}
}
