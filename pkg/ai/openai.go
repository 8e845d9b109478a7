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

// OpenAIProvider implements Provider against an OpenAI-compatible chat
// completions API.
type OpenAIProvider struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewOpenAIProvider creates a new OpenAI-compatible provider.
func NewOpenAIProvider(cfg *Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, &ProviderError{Provider: ProviderOpenAI, Message: "API key is required"}
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultOpenAIEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIProvider{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		model:    model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.timeout(),
		},
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

// Model returns the configured model identifier.
func (p *OpenAIProvider) Model() string { return p.model }

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Synthesize sends the prompts to the chat completions API.
func (p *OpenAIProvider) Synthesize(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", unreachable(ProviderOpenAI, "API request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", unreachable(ProviderOpenAI, "failed to read response", err)
	}

	var apiResp openAIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", &ProviderError{
			Provider: ProviderOpenAI,
			Message:  "unparsable API response",
			Cause:    fmt.Errorf("%w: %w", ErrMalformed, err),
		}
	}

	if apiResp.Error != nil {
		return "", unreachable(ProviderOpenAI, apiResp.Error.Message, nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", unreachable(ProviderOpenAI, fmt.Sprintf("API returned status %d", resp.StatusCode), nil)
	}
	if len(apiResp.Choices) == 0 {
		return "", &ProviderError{
			Provider: ProviderOpenAI,
			Message:  "response contained no choices",
			Cause:    ErrMalformed,
		}
	}

	return strings.TrimSpace(apiResp.Choices[0].Message.Content), nil
}
