package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/davidbz/greeter/internal/observability"
)

// Recovery recovers from panics, logs them and answers 500.
func Recovery() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					observability.FromContext(r.Context()).Error("panic recovered",
						observability.Any("error", err),
						observability.String("stack", string(debug.Stack())),
					)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
