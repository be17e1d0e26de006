package middleware

import (
	"context"
	"net/http"

	"github.com/rs/cors"

	"github.com/davidbz/greeter/internal/config"
	"github.com/davidbz/greeter/internal/observability"
)

// CORS creates a middleware that handles Cross-Origin Resource Sharing (CORS)
// using the github.com/rs/cors library.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		// Return no-op middleware if config is nil.
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{"X-Trace-Id", "X-Request-Id"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
		Debug:            cfg.Debug,
		Logger:           corsLogger{},
	})

	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}

// corsLogger routes rs/cors debug output to the service logger.
type corsLogger struct{}

func (corsLogger) Printf(format string, args ...interface{}) {
	observability.FromContext(context.Background()).Sugar().Debugf(format, args...)
}
