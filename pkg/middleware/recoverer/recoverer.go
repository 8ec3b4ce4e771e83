package recoverer

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/vadimbarashkov/shortener/pkg/middleware"
	"github.com/vadimbarashkov/shortener/pkg/response"
)

// New returns a middleware that turns a panic in the wrapped handler into a
// 500 JSON response. http.ErrAbortHandler is re-panicked so the server can
// abort the connection.
func New(logger *slog.Logger) middleware.Middleware {
	const op = "middleware.recoverer.New"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler { //nolint:errorlint
						panic(rvr)
					}

					logger.Error(
						"panic recovered",
						slog.Group(op,
							slog.Any("panic", rvr),
							slog.String("method", r.Method),
							slog.String("path", r.URL.Path),
						),
					)

					render.Status(r, http.StatusInternalServerError)
					render.JSON(w, r, response.ServerErrorResponse)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
