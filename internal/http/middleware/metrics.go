package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/davidbz/greeter/internal/observability"
)

const unmatchedRoute = "unmatched"

// Metrics records request counts and durations per route.
// A nil metrics instance disables the middleware.
func Metrics(metrics *observability.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if metrics == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := NewResponseWriter(w)

			next.ServeHTTP(rw, r)

			route := routePattern(r)
			if route == "" {
				route = unmatchedRoute
			}
			metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(rw.Status())).Inc()
			metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}
