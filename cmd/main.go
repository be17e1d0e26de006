package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/greeter/internal/config"
	"github.com/davidbz/greeter/internal/domain"
	"github.com/davidbz/greeter/internal/http"
	"github.com/davidbz/greeter/internal/http/middleware"
	"github.com/davidbz/greeter/internal/observability"
	"github.com/davidbz/greeter/internal/provider/echo"
	"github.com/davidbz/greeter/internal/provider/openai"
	"github.com/davidbz/greeter/internal/provider/registry"
	"github.com/davidbz/greeter/internal/routing"
)

func main() {
	container := buildContainer()

	if err := container.Invoke(run); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run serves until SIGINT or SIGTERM, then drains the server and flushes telemetry.
func run(
	server *http.Server,
	serverCfg *config.ServerConfig,
	tracer *observability.TracerProvider,
	logger *zap.Logger,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(serverCfg.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", observability.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		logger.Error("tracer shutdown failed", observability.Error(err))
	}
	_ = logger.Sync()

	return serveErr
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(func(cfg *observability.TracingConfig) (*observability.TracerProvider, error) {
		return observability.InitTracing(context.Background(), cfg)
	}); err != nil {
		log.Fatalf("Failed to provide tracer: %v", err)
	}
	if err := container.Provide(observability.NewMetrics); err != nil {
		log.Fatalf("Failed to provide metrics: %v", err)
	}
	if err := container.Provide(func() domain.EventPublisher {
		return observability.NewEventBus()
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// OpenAI Provider (nil when no API key is set)
	if err := container.Provide(func(cfg *openai.Config) (*openai.Provider, error) {
		if cfg.APIKey == "" {
			return nil, nil //nolint:nilnil // optional provider
		}
		return openai.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide OpenAI provider: %v", err)
	}

	// Echo Provider
	if err := container.Provide(func(cfg *echo.Config) *echo.Provider {
		return echo.NewProvider(cfg.Delay)
	}); err != nil {
		log.Fatalf("Failed to provide echo provider: %v", err)
	}

	// Client Registry
	if err := container.Provide(newClientRegistry); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}

	// Selected completion client
	if err := container.Provide(func(
		reg domain.ClientRegistry,
		cfg *config.CompletionConfig,
	) (domain.CompletionClient, error) {
		client, err := routing.NewRouter(reg).Route(context.Background(), cfg.Provider)
		if err != nil {
			return nil, fmt.Errorf("completion provider %q unavailable: %w", cfg.Provider, err)
		}
		return client, nil
	}); err != nil {
		log.Fatalf("Failed to provide completion client: %v", err)
	}

	// Domain Services
	if err := container.Provide(func(cfg *openai.Config) domain.InvocationParameters {
		return domain.NewInvocationParameters(cfg.Deployment)
	}); err != nil {
		log.Fatalf("Failed to provide invocation parameters: %v", err)
	}
	if err := container.Provide(func(
		client domain.CompletionClient,
		params domain.InvocationParameters,
		metrics *observability.Metrics,
	) domain.Greeter {
		return domain.NewGreetingService(client, params, metrics)
	}); err != nil {
		log.Fatalf("Failed to provide greeting service: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}

// newClientRegistry registers every configured completion client.
func newClientRegistry(
	logger *zap.Logger,
	echoProvider *echo.Provider,
	openaiProvider *openai.Provider,
) (domain.ClientRegistry, error) {
	ctx := context.Background()
	reg := registry.NewRegistry()

	if err := reg.Register(ctx, echoProvider); err != nil {
		return nil, fmt.Errorf("failed to register echo provider: %w", err)
	}

	if openaiProvider == nil {
		logger.Warn("OpenAI provider not configured, skipping")
		return reg, nil
	}
	if err := reg.Register(ctx, openaiProvider); err != nil {
		return nil, fmt.Errorf("failed to register OpenAI provider: %w", err)
	}

	return reg, nil
}
