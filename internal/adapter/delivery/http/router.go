// Package http provides the HTTP delivery layer of the URL shortener: the
// chi router, its handlers and the request/response schemas.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/shortener/pkg/middleware"
	"github.com/vadimbarashkov/shortener/pkg/middleware/metrics"
	"github.com/vadimbarashkov/shortener/pkg/middleware/recoverer"
)

type routerOptions struct {
	metrics      *metrics.Metrics
	shortenLimit middleware.Middleware
	swaggerSpec  string
}

type RouterOption func(*routerOptions)

// WithMetrics instruments every request and mounts the registry at /metrics.
func WithMetrics(m *metrics.Metrics) RouterOption {
	return func(o *routerOptions) {
		o.metrics = m
	}
}

// WithShortenRateLimit guards POST /shorten with mw.
func WithShortenRateLimit(mw middleware.Middleware) RouterOption {
	return func(o *routerOptions) {
		o.shortenLimit = mw
	}
}

// WithSwaggerSpec serves the OpenAPI document at path under /swagger.
func WithSwaggerSpec(path string) RouterOption {
	return func(o *routerOptions) {
		o.swaggerSpec = path
	}
}

func NewRouter(logger *httplog.Logger, urlUseCase urlUseCase, opts ...RouterOption) *chi.Mux {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		ExposedHeaders:   []string{"Location", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))

	if o.metrics != nil {
		r.Use(o.metrics.Middleware())
		r.Method(http.MethodGet, "/metrics", o.metrics.Handler())
	}

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Get("/ping", handlePing)

	if o.swaggerSpec != "" {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/docs/swagger.yml"),
		))

		r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, o.swaggerSpec)
		})
	}

	h := newURLHandler(urlUseCase, newValidator())

	if o.shortenLimit != nil {
		r.With(o.shortenLimit).Post("/shorten", h.shortenURL)
	} else {
		r.Post("/shorten", h.shortenURL)
	}

	r.Get("/{shortcode}", h.redirect)
	r.Get("/{shortcode}/stats", h.getURLStats)

	return r
}
