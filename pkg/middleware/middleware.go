// Package middleware groups the HTTP middlewares shared by the service routers.
package middleware

import "net/http"

type Middleware func(http.Handler) http.Handler
