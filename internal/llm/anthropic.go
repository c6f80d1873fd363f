package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jonathan/career-compass/internal/types"
)

// AnthropicClient implements Client using the Anthropic messages API.
type AnthropicClient struct {
	apiKey     string
	config     *Config
	httpClient *http.Client
}

// NewAnthropicClient creates a new Anthropic content-service client.
func NewAnthropicClient(config *Config, apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	return &AnthropicClient{
		apiKey: apiKey,
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// contentBlockEnvelope is the current response shape: a list of content
// blocks where the first block holds the text.
type contentBlockEnvelope struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// completionEnvelope is the legacy response shape: a single completion string.
type completionEnvelope struct {
	Completion string `json:"completion"`
}

// Generate sends the stage prompt and returns the unwrapped response text.
func (c *AnthropicClient) Generate(ctx context.Context, stage types.StageID, prompt string, maxTokens int) (string, error) {
	reqBody := anthropicRequest{
		Model:       c.config.Model,
		MaxTokens:   maxTokens,
		Temperature: c.config.Temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request for stage %s: %w", stage, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request for stage %s: %w", stage, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Status: 0, Body: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Status: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return decodeEnvelope(respBody)
}

// decodeEnvelope unwraps a success response. Two envelope shapes are
// recognized, tried in order as an explicit discriminated decode: the content
// block list, then the legacy completion string. This dual-shape handling is a
// compatibility contract with older service deployments.
func decodeEnvelope(body []byte) (string, error) {
	var blocks contentBlockEnvelope
	if err := json.Unmarshal(body, &blocks); err == nil && len(blocks.Content) > 0 {
		if text := blocks.Content[0].Text; text != "" {
			return text, nil
		}
	}

	var completion completionEnvelope
	if err := json.Unmarshal(body, &completion); err == nil && completion.Completion != "" {
		return completion.Completion, nil
	}

	return "", &EnvelopeFormatError{Body: string(body)}
}

// Close releases resources held by the client.
func (c *AnthropicClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
