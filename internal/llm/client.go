// Package llm talks to an OpenAI-compatible chat-completions endpoint to turn
// free text into flight details.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dharmasatrya/flyhigh/internal/config"
)

var ErrDisabled = errors.New("llm client is not enabled (missing LLM_API_KEY)")

// APIError is a non-200 answer from the model endpoint. The status code is kept
// in the message so callers can recognise quota (429) and overload (503) replies.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm request failed with status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	config        config.LLMConfig
	defaultOrigin string
	httpClient    *http.Client
	now           func() time.Time
}

func NewClient(cfg config.LLMConfig, defaultOrigin string) *Client {
	cfg.APIBase = strings.TrimSuffix(cfg.APIBase, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		config:        cfg,
		defaultOrigin: defaultOrigin,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		now:           time.Now,
	}
}

func (c *Client) IsEnabled() bool {
	return c.config.Enabled
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// complete sends one system+user exchange and returns the first choice's content.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if !c.config.Enabled {
		return "", ErrDisabled
	}

	reqBody, err := json.Marshal(chatCompletionRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    c.config.Temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIBase+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	log.Printf("[LLM] %s status=%d in %v", c.config.Model, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("llm response has no choices")
	}
	return result.Choices[0].Message.Content, nil
}
