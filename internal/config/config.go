package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/greeter/internal/observability"
	"github.com/davidbz/greeter/internal/provider/echo"
	"github.com/davidbz/greeter/internal/provider/openai"
)

// Config represents the service configuration.
type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Completion CompletionConfig
	OpenAI     openai.Config
	Echo       echo.Config
	Log        observability.LogConfig
	Tracing    observability.TracingConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int `env:"SERVER_PORT"             envDefault:"8080"`
	ReadTimeout     int `env:"SERVER_READ_TIMEOUT"     envDefault:"30"`
	WriteTimeout    int `env:"SERVER_WRITE_TIMEOUT"    envDefault:"90"`
	ShutdownTimeout int `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
	Debug            bool     `env:"CORS_DEBUG"                              envDefault:"false"`
}

// CompletionConfig selects the completion client serving greetings.
type CompletionConfig struct {
	Provider string `env:"COMPLETION_PROVIDER" envDefault:"openai"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server     *ServerConfig
	CORS       *CORSConfig
	Completion *CompletionConfig
	OpenAI     *openai.Config
	Echo       *echo.Config
	Log        *observability.LogConfig
	Tracing    *observability.TracingConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:        dig.Out{},
		Server:     &cfg.Server,
		CORS:       &cfg.CORS,
		Completion: &cfg.Completion,
		OpenAI:     &cfg.OpenAI,
		Echo:       &cfg.Echo,
		Log:        &cfg.Log,
		Tracing:    &cfg.Tracing,
	}
}
