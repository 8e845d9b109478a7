package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OllamaProvider implements Provider against a local Ollama instance.
type OllamaProvider struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(cfg *Config) *OllamaProvider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultOllamaEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOllamaModel
	}

	return &OllamaProvider{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		model:    model,
		httpClient: &http.Client{
			Timeout: cfg.timeout(),
		},
	}
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string { return ProviderOllama }

// Model returns the configured model identifier.
func (p *OllamaProvider) Model() string { return p.model }

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// Synthesize sends the prompts to Ollama's chat API and returns the raw
// response text.
func (p *OllamaProvider) Synthesize(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := ollamaRequest{
		Model: p.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream: false,
		Options: &ollamaOptions{
			Temperature: 0.7,
			NumPredict:  800,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", unreachable(ProviderOllama, "API request failed - is Ollama running?", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", unreachable(ProviderOllama, "failed to read response", err)
	}

	var ollamaResp ollamaResponse
	if err := json.Unmarshal(body, &ollamaResp); err != nil {
		return "", &ProviderError{
			Provider: ProviderOllama,
			Message:  "unparsable API response",
			Cause:    fmt.Errorf("%w: %w", ErrMalformed, err),
		}
	}

	if ollamaResp.Error != "" {
		return "", unreachable(ProviderOllama, ollamaResp.Error, nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", unreachable(ProviderOllama, fmt.Sprintf("API returned status %d", resp.StatusCode), nil)
	}

	return strings.TrimSpace(ollamaResp.Message.Content), nil
}

// CheckConnection verifies that Ollama is running.
func (p *OllamaProvider) CheckConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return unreachable(ProviderOllama, "cannot connect to Ollama - is it running?", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unreachable(ProviderOllama, fmt.Sprintf("Ollama returned status %d", resp.StatusCode), nil)
	}
	return nil
}
