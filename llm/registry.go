package llm

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
)

// ErrUnknownModel indicates the requested model is not in the catalog.
var ErrUnknownModel = errors.New("unknown model")

// ErrDuplicateModel indicates an attempt to register the same model ID or alias twice.
var ErrDuplicateModel = errors.New("model already registered")

// ErrUnknownProvider indicates a model references a provider that was never registered.
var ErrUnknownProvider = errors.New("unknown provider")

// ModelEntry describes a model offered to users and the provider that serves it.
type ModelEntry struct {
	ID       string
	Provider string
	Label    string
	Aliases  []string
}

// DisplayName returns a human-friendly name for option lists.
func (e ModelEntry) DisplayName() string {
	if e.Label == "" {
		return e.ID
	}
	return fmt.Sprintf("%s (%s)", e.Label, e.ID)
}

// Registry maps model identifiers (IDs and aliases) to provider clients.
// It implements Client itself, routing each request by its Model field.
// The lock only guards lookups; provider calls run outside of it.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Client
	models    map[string]ModelEntry
	ordered   []ModelEntry
	fallback  string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Client),
		models:    make(map[string]ModelEntry),
	}
}

// RegisterProvider adds a named provider client.
func (r *Registry) RegisterProvider(name string, client Client) error {
	if client == nil {
		return errors.New("provider client must not be nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("provider name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %q already registered", name)
	}
	r.providers[name] = client
	return nil
}

// RegisterModel adds a model and its aliases to the catalog.
// The model's provider must already be registered.
func (r *Registry) RegisterModel(entry ModelEntry) error {
	entry.ID = strings.TrimSpace(entry.ID)
	if entry.ID == "" {
		return errors.New("model id must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[entry.Provider]; !ok {
		return fmt.Errorf("model %q: %w: %s", entry.ID, ErrUnknownProvider, entry.Provider)
	}

	names := append([]string{entry.ID}, entry.Aliases...)
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("model %q: alias must not be empty", entry.ID)
		}
		if _, exists := r.models[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateModel, name)
		}
	}
	if len(lo.Uniq(names)) != len(names) {
		return fmt.Errorf("%w: model %q repeats a name in its aliases", ErrDuplicateModel, entry.ID)
	}

	entry.Aliases = slices.Clone(entry.Aliases)
	for _, name := range names {
		r.models[name] = entry
	}
	r.ordered = append(r.ordered, entry)
	return nil
}

// SetFallbackProvider routes models missing from the catalog to the named
// provider unchanged. An empty name disables the fallback.
func (r *Registry) SetFallbackProvider(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name != "" {
		if _, ok := r.providers[name]; !ok {
			return fmt.Errorf("fallback: %w: %s", ErrUnknownProvider, name)
		}
	}
	r.fallback = name
	return nil
}

// Resolve returns the catalog entry and provider client for a model ID or alias.
func (r *Registry) Resolve(model string) (ModelEntry, Client, error) {
	model = strings.TrimSpace(model)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.models[model]; ok {
		return entry, r.providers[entry.Provider], nil
	}
	if model != "" && r.fallback != "" {
		return ModelEntry{ID: model, Provider: r.fallback}, r.providers[r.fallback], nil
	}
	return ModelEntry{}, nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
}

// Models returns the catalog in registration order.
func (r *Registry) Models() []ModelEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.ordered)
}

// Providers returns the registered provider names, sorted.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.providers)
	slices.Sort(names)
	return names
}

// Synchronous implements Client by dispatching to the provider that serves req.Model.
// The request is copied with its model rewritten to the canonical ID.
func (r *Registry) Synchronous(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("request is required")
	}

	entry, client, err := r.Resolve(req.Model)
	if err != nil {
		return nil, &Error{
			Type:        ErrorTypeInvalidRequest,
			Message:     "model is not available",
			ProviderErr: err,
		}
	}

	routed := *req
	routed.Model = entry.ID
	return client.Synchronous(ctx, &routed)
}

var _ Client = (*Registry)(nil)
