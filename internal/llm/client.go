package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Completer issues one single-turn completion request. Evaluation runs
// depend only on this interface; tests substitute a stub.
type Completer interface {
	Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}

// Client wraps an OpenAI-compatible chat completions endpoint. Pointing
// BaseURL at OpenRouter or a local server works unchanged.
type Client struct {
	client    *openai.Client
	maxTokens int
}

// NewClient creates a completion client. baseURL may be empty for the
// default endpoint.
func NewClient(apiKey, baseURL string, maxTokens int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("completion API key is required")
	}
	if maxTokens <= 0 {
		maxTokens = 150
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		maxTokens: maxTokens,
	}, nil
}

// Complete sends one chat completion request with deterministic sampling.
func (c *Client) Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0.0,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
