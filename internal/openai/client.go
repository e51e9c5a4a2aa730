package openai

import (
	"context"
	"errors"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mainstreet-labs/mainstreet/internal/service"
)

const (
	// DefaultMaxTokens bounds a single completion.
	DefaultMaxTokens = 1000
	// DefaultTemperature is the sampling temperature for marketing copy.
	DefaultTemperature = 0.7
)

var (
	// ErrNoAPIKey is returned when the OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
	// ErrNoChoices is returned when the provider responds without a completion
	ErrNoChoices = errors.New("no completion choices returned")
)

// ChatCompletionAPI defines the provider surface the client depends on
// (for testing)
type ChatCompletionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client wraps the OpenAI chat-completion API behind the service.ChatClient
// interface.
type Client struct {
	api         ChatCompletionAPI
	maxTokens   int
	temperature float32
}

// Config holds client configuration.
type Config struct {
	APIKey      string
	MaxTokens   int
	Temperature float32
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	return &Client{
		api:         openai.NewClient(cfg.APIKey),
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// NewClientWithAPI creates a client over a custom provider implementation
// (for testing)
func NewClientWithAPI(api ChatCompletionAPI) *Client {
	return &Client{
		api:         api,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
}

// NewClientFromEnv creates a new OpenAI client using the OPENAI_API_KEY
// environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// CreateChatCompletion sends the conversation to the provider and returns the
// first completion's content.
func (c *Client) CreateChatCompletion(ctx context.Context, model string, messages []service.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}
