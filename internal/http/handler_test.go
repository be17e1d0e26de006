package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/davidbz/greeter/internal/config"
	"github.com/davidbz/greeter/internal/domain"
	greethttp "github.com/davidbz/greeter/internal/http"
	"github.com/davidbz/greeter/internal/http/middleware"
	"github.com/davidbz/greeter/internal/observability"
	"github.com/davidbz/greeter/internal/provider/echo"
)

// stubClient is a stub implementation of domain.CompletionClient for testing.
type stubClient struct {
	result domain.CompletionResult
	calls  int
	ctxErr error
}

func (s *stubClient) Complete(
	ctx context.Context,
	_ domain.PromptRequest,
	_ domain.InvocationParameters,
) domain.CompletionResult {
	s.calls++
	s.ctxErr = ctx.Err()
	return s.result
}

func (s *stubClient) Name() string {
	return "stub"
}

// publishedEvent records one EventPublisher call.
type publishedEvent struct {
	eventType string
	data      map[string]interface{}
}

type recordingPublisher struct {
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, data map[string]interface{}) {
	p.events = append(p.events, publishedEvent{eventType: eventType, data: data})
}

func newTestServer(t *testing.T, client domain.CompletionClient, events domain.EventPublisher) http.Handler {
	t.Helper()

	metrics := observability.NewMetrics()
	greeter := domain.NewGreetingService(client, domain.NewInvocationParameters(""), metrics)

	handler, err := greethttp.NewHandler(greeter, events)
	require.NoError(t, err)

	cors := &config.CORSConfig{AllowedOrigins: []string{"*"}}
	server := greethttp.NewServer(
		&config.ServerConfig{Port: 0},
		handler,
		middleware.BuildMiddlewareChain(cors, metrics),
		metrics,
	)

	return server.Routes()
}

func postHello(handler http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/hello", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandleHello(t *testing.T) {
	t.Run("should render greeting for name", func(t *testing.T) {
		client := &stubClient{result: domain.Success("Hello Alice!", domain.Usage{})}
		handler := newTestServer(t, client, nil)

		w := postHello(handler, url.Values{"name": {"Alice"}})

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Header().Get("Content-Type"), "text/html")
		require.Contains(t, w.Body.String(), "Hello Alice</h1>")
		require.Contains(t, w.Body.String(), `<p class="message">Hello Alice!</p>`)
		require.Equal(t, 1, client.calls)
	})

	t.Run("should redirect without calling client when name is empty", func(t *testing.T) {
		client := &stubClient{result: domain.Success("unused", domain.Usage{})}
		handler := newTestServer(t, client, nil)

		w := postHello(handler, url.Values{"name": {""}})

		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/", w.Header().Get("Location"))
		require.Equal(t, 0, client.calls)
	})

	t.Run("should redirect without calling client when name is absent", func(t *testing.T) {
		client := &stubClient{result: domain.Success("unused", domain.Usage{})}
		handler := newTestServer(t, client, nil)

		w := postHello(handler, url.Values{})

		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/", w.Header().Get("Location"))
		require.Equal(t, 0, client.calls)
	})

	t.Run("should render error text with success status", func(t *testing.T) {
		client := &stubClient{result: domain.Failure(errors.New("request timed out"))}
		handler := newTestServer(t, client, nil)

		w := postHello(handler, url.Values{"name": {"Bob"}})

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "Hello Bob</h1>")
		require.Contains(t, w.Body.String(), `<p class="message">Error generating message: request timed out</p>`)
	})

	t.Run("should escape name in result view", func(t *testing.T) {
		client := &stubClient{result: domain.Success("hi", domain.Usage{})}
		handler := newTestServer(t, client, nil)

		w := postHello(handler, url.Values{"name": {"<b>Eve</b>"}})

		require.Equal(t, http.StatusOK, w.Code)
		require.NotContains(t, w.Body.String(), "<b>Eve</b>")
		require.Contains(t, w.Body.String(), "&lt;b&gt;Eve&lt;/b&gt;")
	})

	t.Run("should not cancel completion when client disconnects", func(t *testing.T) {
		client := &stubClient{result: domain.Success("hi", domain.Usage{})}
		handler := newTestServer(t, client, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		form := url.Values{"name": {"Dan"}}
		req := httptest.NewRequest(http.MethodPost, "/hello", strings.NewReader(form.Encode())).WithContext(ctx)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 1, client.calls)
		require.NoError(t, client.ctxErr)
	})

	t.Run("should publish hello event", func(t *testing.T) {
		client := &stubClient{result: domain.Success("hi", domain.Usage{})}
		events := &recordingPublisher{}
		handler := newTestServer(t, client, events)

		postHello(handler, url.Values{"name": {"Alice"}})

		require.Len(t, events.events, 1)
		require.Equal(t, observability.EventHelloReceived, events.events[0].eventType)
		require.Equal(t, "Alice", events.events[0].data["name"])
	})

	t.Run("should reject GET", func(t *testing.T) {
		handler := newTestServer(t, &stubClient{}, nil)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))

		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestHandleHello_Logging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	observability.SetLogger(zap.New(core))
	t.Cleanup(func() { observability.SetLogger(nil) })

	client := &stubClient{result: domain.Failure(errors.New("network unreachable"))}
	handler := newTestServer(t, client, nil)

	postHello(handler, url.Values{"name": {"Bob"}})
	postHello(handler, url.Values{"name": {""}})

	require.Equal(t, 1, logs.FilterMessage("request for hello page received").Len())
	require.Equal(t, 1, logs.FilterMessage("generating message").Len())
	require.Equal(t, 1, logs.FilterMessage("error generating message").Len())
	require.Equal(t, 1, logs.FilterMessage("request for hello page received with no name or blank name, redirecting").Len())
}

func TestHandleHello_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	handler := newTestServer(t, echo.NewProvider(0), observability.NewEventBus())

	w := postHello(handler, url.Values{"name": {"Alice"}})
	require.Equal(t, http.StatusOK, w.Code)

	byName := map[string]sdktrace.ReadOnlySpan{}
	for _, span := range recorder.Ended() {
		byName[span.Name()] = span
	}
	require.Len(t, byName, 3)

	server := byName["HTTP POST /hello"]
	generate := byName[observability.SpanGenerateMessage]
	call := byName[observability.SpanCallCompletion]
	require.NotNil(t, server)
	require.NotNil(t, generate)
	require.NotNil(t, call)

	require.Equal(t, server.SpanContext().SpanID(), generate.Parent().SpanID())
	require.Equal(t, generate.SpanContext().SpanID(), call.Parent().SpanID())
	require.Equal(t, trace.SpanKindClient, call.SpanKind())

	require.Len(t, server.Events(), 1)
	require.Equal(t, observability.EventHelloReceived, server.Events()[0].Name)
}

func TestHandleIndex(t *testing.T) {
	handler := newTestServer(t, &stubClient{}, nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `<form method="post" action="/hello">`)
	require.Contains(t, w.Body.String(), `name="name"`)
}

func TestHandleFavicon(t *testing.T) {
	handler := newTestServer(t, &stubClient{}, nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/vnd.microsoft.icon", w.Header().Get("Content-Type"))
	require.NotZero(t, w.Body.Len())
}

func TestHandleHealth(t *testing.T) {
	handler := newTestServer(t, &stubClient{}, nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	client := &stubClient{result: domain.Success("hi", domain.Usage{})}
	handler := newTestServer(t, client, nil)

	postHello(handler, url.Values{"name": {"Alice"}})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `greeter_greetings_total{outcome="success"} 1`)
	require.Contains(t, w.Body.String(), `greeter_http_requests_total{route="/hello",status="200"} 1`)
}

func TestNewHandler_NilGreeter(t *testing.T) {
	handler, err := greethttp.NewHandler(nil, nil)

	require.Error(t, err)
	require.Nil(t, handler)
}
