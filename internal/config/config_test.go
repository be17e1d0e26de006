package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/greeter/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		// Clear environment
		os.Clearenv()

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify defaults
		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, 30, cfg.Server.ReadTimeout)
		require.Equal(t, 90, cfg.Server.WriteTimeout)
		require.Equal(t, 15, cfg.Server.ShutdownTimeout)
		require.Equal(t, "openai", cfg.Completion.Provider)
		require.Equal(t, "azure", cfg.OpenAI.APIType)
		require.Equal(t, "2023-05-15", cfg.OpenAI.APIVersion)
		require.Equal(t, "gpt-35-turbo", cfg.OpenAI.Deployment)
		require.Equal(t, 0, cfg.OpenAI.Timeout)
		require.Empty(t, cfg.OpenAI.APIKey)
		require.Empty(t, cfg.OpenAI.BaseURL)
		require.Equal(t, time.Duration(0), cfg.Echo.Delay)
		require.Equal(t, "info", cfg.Log.Level)
		require.Equal(t, "json", cfg.Log.Format)
		require.Empty(t, cfg.Log.File)
		require.Equal(t, "greeter", cfg.Tracing.ServiceName)
		require.Empty(t, cfg.Tracing.OTLPEndpoint)
		require.InDelta(t, 1.0, cfg.Tracing.SampleRate, 0)
		require.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		// Set environment variables using t.Setenv for automatic cleanup
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("COMPLETION_PROVIDER", "echo")
		t.Setenv("ECHO_DELAY", "250ms")
		t.Setenv("OPENAI_API_TYPE", "openai")
		t.Setenv("OPENAI_API_KEY", "sk-test-key")
		t.Setenv("OPENAI_API_BASE", "https://my-resource.openai.azure.com")
		t.Setenv("OPENAI_API_VERSION", "2024-02-01")
		t.Setenv("OPENAI_DEPLOYMENT", "gpt-4o")
		t.Setenv("OPENAI_TIMEOUT", "20")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FILE", "/tmp/greeter.log")
		t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
		t.Setenv("OTEL_SAMPLE_RATE", "0.5")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify loaded values
		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, "echo", cfg.Completion.Provider)
		require.Equal(t, 250*time.Millisecond, cfg.Echo.Delay)
		require.Equal(t, "openai", cfg.OpenAI.APIType)
		require.Equal(t, "sk-test-key", cfg.OpenAI.APIKey)
		require.Equal(t, "https://my-resource.openai.azure.com", cfg.OpenAI.BaseURL)
		require.Equal(t, "2024-02-01", cfg.OpenAI.APIVersion)
		require.Equal(t, "gpt-4o", cfg.OpenAI.Deployment)
		require.Equal(t, 20, cfg.OpenAI.Timeout)
		require.Equal(t, "debug", cfg.Log.Level)
		require.Equal(t, "/tmp/greeter.log", cfg.Log.File)
		require.Equal(t, "localhost:4317", cfg.Tracing.OTLPEndpoint)
		require.InDelta(t, 0.5, cfg.Tracing.SampleRate, 0)
		require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	})
}

func TestParseDependenciesConfig(t *testing.T) {
	os.Clearenv()
	cfg := config.Load()

	deps := config.ParseDependenciesConfig(cfg)

	require.Same(t, &cfg.Server, deps.Server)
	require.Same(t, &cfg.OpenAI, deps.OpenAI)
	require.Same(t, &cfg.Echo, deps.Echo)
	require.Same(t, &cfg.Log, deps.Log)
	require.Same(t, &cfg.Tracing, deps.Tracing)
}
