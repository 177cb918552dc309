// Package providers holds the model-tier client: an OpenAI-compatible
// chat-completions HTTP API, pointed at either a local inference server or a
// hosted endpoint.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultHTTPTimeout = 120 * time.Second

// Message is one chat message on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SamplingOptions are forwarded into the completion request body.
type SamplingOptions struct {
	MaxNewTokens int
	Temperature  float64
	TopP         float64
}

// ChatProvider is the surface the generator depends on.
type ChatProvider interface {
	Chat(ctx context.Context, messages []Message, opts SamplingOptions) (string, error)
	Probe(ctx context.Context) error
}

// Client talks to a /chat/completions endpoint.
type Client struct {
	apiBase    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(apiBase, apiKey, model string) (*Client, error) {
	apiBase = strings.TrimRight(strings.TrimSpace(apiBase), "/")
	if apiBase == "" {
		return nil, fmt.Errorf("model API base not configured")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model name not configured")
	}
	return &Client{
		apiBase:    apiBase,
		apiKey:     strings.TrimSpace(apiKey),
		model:      strings.TrimSpace(model),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}, nil
}

// Chat sends messages and returns the first choice's content.
func (c *Client) Chat(ctx context.Context, messages []Message, opts SamplingOptions) (string, error) {
	requestBody := map[string]interface{}{
		"model":    c.model,
		"messages": messages,
	}
	if opts.MaxNewTokens > 0 {
		requestBody["max_tokens"] = opts.MaxNewTokens
	}
	if opts.Temperature > 0 {
		requestBody["temperature"] = opts.Temperature
	}
	if opts.TopP > 0 {
		requestBody["top_p"] = opts.TopP
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("completion request failed: status=%d error=%s", resp.StatusCode, extractAPIError(body))
	}

	content, err := parseCompletionContent(body)
	if err != nil {
		return "", fmt.Errorf("parse completion response: %w", err)
	}
	return content, nil
}

// Probe checks whether the endpoint answers at all. Called once at startup;
// a failure marks the model tier absent for the process lifetime.
func (c *Client) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/models", nil)
	if err != nil {
		return fmt.Errorf("create probe request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("model endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("model endpoint unhealthy: status=%d", resp.StatusCode)
	}
	return nil
}

func parseCompletionContent(body []byte) (string, error) {
	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content interface{} `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return "", err
	}
	if len(apiResponse.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return flattenContent(apiResponse.Choices[0].Message.Content), nil
}

// flattenContent accepts both the plain-string and the content-parts shape
// some servers return.
func flattenContent(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if text, ok := m["text"].(string); ok {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "")
	default:
		return ""
	}
}

func extractAPIError(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "empty response body"
	}

	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Error.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
	}

	if len(trimmed) > 500 {
		return trimmed[:500] + "..."
	}
	return trimmed
}
