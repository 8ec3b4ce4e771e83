// Package ratelimit provides a fixed window rate limiting middleware backed by
// a shared counter store.
package ratelimit

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"github.com/vadimbarashkov/shortener/pkg/middleware"
	"github.com/vadimbarashkov/shortener/pkg/response"
)

const defaultKeyPrefix = "ratelimit"

// Counter counts hits for key inside a fixed window. The first hit of a
// window starts its expiry.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type Config struct {
	Requests  int
	Window    time.Duration
	KeyPrefix string
}

// New returns a middleware allowing cfg.Requests requests per client IP in
// every cfg.Window. When the counter fails the request is let through.
func New(counter Counter, cfg Config, logger *slog.Logger) middleware.Middleware {
	const op = "middleware.ratelimit.New"

	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cfg.KeyPrefix + ":" + clientIP(r)

			hits, err := counter.Hit(r.Context(), key, cfg.Window)
			if err != nil {
				logger.Error(
					"rate limit counter failed",
					slog.Group(op, slog.String("key", key), slog.Any("err", err)),
				)

				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(cfg.Requests) - hits
			if remaining < 0 {
				remaining = 0
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(cfg.Window).Unix(), 10))

			if hits > int64(cfg.Requests) {
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.RateLimitExceededResponse)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP expects chi's RealIP middleware to have already rewritten
// RemoteAddr from the proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
