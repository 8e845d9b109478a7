package ai

import "time"

// Provider identifiers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Defaults.
const (
	DefaultOllamaEndpoint = "http://localhost:11434"
	DefaultOllamaModel    = "llama3.2"
	DefaultOpenAIEndpoint = "https://api.openai.com/v1"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultTimeout        = 60 * time.Second
)

// Config holds provider configuration.
type Config struct {
	// Provider selects a backend: "ollama" (default) or "openai".
	Provider string `json:"provider" yaml:"provider"`

	// Model overrides the backend's default model.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Endpoint overrides the backend's default API endpoint.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// APIKey authenticates hosted backends. Ollama ignores it.
	APIKey string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`

	// Timeout bounds a single synthesis request.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

func (c *Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}
