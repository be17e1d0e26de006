package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/davidbz/greeter/internal/domain"
)

// ErrClientNotFound is returned when no client is registered under a name.
var ErrClientNotFound = errors.New("completion client not found")

// Registry implements the domain.ClientRegistry interface.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]domain.CompletionClient
}

// NewRegistry creates a new client registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:      sync.RWMutex{},
		clients: make(map[string]domain.CompletionClient),
	}
}

// Register adds a client to the registry.
func (r *Registry) Register(_ context.Context, client domain.CompletionClient) error {
	if client == nil {
		return errors.New("client cannot be nil")
	}

	name := client.Name()
	if name == "" {
		return errors.New("client name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[name]; exists {
		return fmt.Errorf("client %s already registered", name)
	}

	r.clients[name] = client

	return nil
}

// Get retrieves a client by name.
func (r *Registry) Get(_ context.Context, name string) (domain.CompletionClient, error) {
	if name == "" {
		return nil, errors.New("client name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	client, exists := r.clients[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, name)
	}

	return client, nil
}

// List returns the sorted names of all registered clients.
func (r *Registry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}
