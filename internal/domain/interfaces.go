package domain

import "context"

// CompletionClient performs one outbound chat-completion call.
type CompletionClient interface {
	// Complete sends the prompt with the given parameters and returns the first candidate's text.
	Complete(ctx context.Context, prompt PromptRequest, params InvocationParameters) CompletionResult

	// Name returns the client identifier.
	Name() string
}

// ClientRegistry manages the available completion clients.
type ClientRegistry interface {
	// Register adds a client to the registry.
	Register(ctx context.Context, client CompletionClient) error

	// Get retrieves a client by name.
	Get(ctx context.Context, name string) (CompletionClient, error)

	// List returns the names of all registered clients.
	List(ctx context.Context) ([]string, error)
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

// Greeter turns a name into display-ready text.
type Greeter interface {
	Greet(ctx context.Context, name string) string
}
