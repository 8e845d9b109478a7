package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider defines the text-generation collaborator interface.
type Provider interface {
	// Synthesize sends a system and user prompt and returns the raw
	// response text. Transport-level failures wrap ErrUnreachable so
	// callers can distinguish them from malformed output.
	Synthesize(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name returns the provider identifier (e.g. "ollama", "openai").
	Name() string
}

// Sentinel error kinds. Unreachability is distinguishable from malformed
// output: the former means the backend never answered usefully, the latter
// means it answered garbage.
var (
	// ErrUnreachable is wrapped by transport and backend failures.
	ErrUnreachable = errors.New("provider unreachable")

	// ErrMalformed is wrapped when a response cannot be parsed as JSON.
	ErrMalformed = errors.New("malformed provider response")

	// ErrNotConfigured is returned for unknown provider names.
	ErrNotConfigured = errors.New("AI provider not configured")
)

// ProviderError wraps errors from providers with context.
type ProviderError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// unreachable builds a ProviderError that satisfies errors.Is(err, ErrUnreachable).
func unreachable(provider, message string, cause error) error {
	if cause == nil {
		cause = ErrUnreachable
	} else {
		cause = fmt.Errorf("%w: %w", ErrUnreachable, cause)
	}
	return &ProviderError{Provider: provider, Message: message, Cause: cause}
}

// New creates a provider from configuration.
func New(cfg *Config) (Provider, error) {
	if cfg == nil {
		return nil, ErrNotConfigured
	}

	switch cfg.Provider {
	case ProviderOllama, "":
		return NewOllamaProvider(cfg), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, cfg.Provider)
	}
}

// StripCodeFences removes markdown code fences from a response.
// Models frequently wrap JSON in ```json ... ``` despite being told not to.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if strings.HasSuffix(strings.TrimSpace(s), "```") {
			s = strings.TrimSpace(s)
			s = s[:len(s)-3]
			s = strings.TrimSpace(s)
		}
	}
	return s
}
