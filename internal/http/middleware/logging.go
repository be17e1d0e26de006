package middleware

import (
	"net/http"
	"time"

	"github.com/davidbz/greeter/internal/observability"
)

// Logging logs the outcome of every request.
func Logging() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := NewResponseWriter(w)

			next.ServeHTTP(rw, r)

			observability.FromContext(r.Context()).Info("request completed",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.Int("status", rw.Status()),
				observability.Int64("size", rw.Size()),
				observability.Elapsed(start),
			)
		})
	}
}
