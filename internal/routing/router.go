package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davidbz/greeter/internal/domain"
)

// SimpleRouter resolves the completion client serving greetings.
type SimpleRouter struct {
	registry domain.ClientRegistry
}

// NewRouter creates a new router.
func NewRouter(registry domain.ClientRegistry) *SimpleRouter {
	return &SimpleRouter{
		registry: registry,
	}
}

// Route returns the registered client with the given name.
// The error lists the clients that are available instead.
func (r *SimpleRouter) Route(ctx context.Context, name string) (domain.CompletionClient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("client name is required")
	}

	clientNames, err := r.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	if len(clientNames) == 0 {
		return nil, errors.New("no clients available")
	}

	for _, registered := range clientNames {
		if !strings.EqualFold(registered, name) {
			continue
		}

		client, getErr := r.registry.Get(ctx, registered)
		if getErr != nil {
			return nil, fmt.Errorf("failed to get client %s: %w", registered, getErr)
		}
		return client, nil
	}

	return nil, fmt.Errorf("no client named %s (available: %s)", name, strings.Join(clientNames, ", "))
}
