package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// PlaceholderKey is the value shipped in sample configs; it counts as unset.
const PlaceholderKey = "your_groq_api_key_here"

// Request is a single-turn chat completion request.
type Request struct {
	Purpose     string // "chat" or "analysis"; used for logs and metrics
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Completer is anything that can answer a Request with text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// KeyConfigured reports whether apiKey looks like a real key.
func KeyConfigured(apiKey string) bool {
	k := strings.TrimSpace(apiKey)
	return k != "" && k != PlaceholderKey
}

// New creates a new LLM client. A zero timeout leaves the HTTP client default.
func New(baseURL, apiKey, modelName string, timeout time.Duration) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if timeout > 0 {
		config.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Complete sends the system and user prompts and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "purpose", req.Purpose, "chars", len(text))
	return text, nil
}
