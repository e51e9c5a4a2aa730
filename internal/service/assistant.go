package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mainstreet-labs/mainstreet/internal/domain"
	"github.com/mainstreet-labs/mainstreet/internal/telemetry"
)

const (
	// DefaultChatModel is used when the caller does not pick one.
	DefaultChatModel = "gpt-3.5-turbo"

	// maxHistoryMessages caps how much prior conversation is forwarded.
	maxHistoryMessages = 10

	assistantSystemPrompt = "You are a helpful AI assistant."
)

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatClient defines the interface for the chat-completion provider.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, model string, messages []ChatMessage) (string, error)
}

// ChatInput represents one assistant request.
type ChatInput struct {
	Prompt  string
	Model   string
	History []ChatMessage
}

// ChatOutput carries the generated copy and the model that produced it.
type ChatOutput struct {
	Content string
	Model   string
}

// Prompt templates for the marketing-copy tools, keyed by the path segment
// the handler receives.
var (
	businessPrompts = map[string]string{
		"name":    "Generate 5 creative business names for: %s",
		"plan":    "Create a brief business plan outline for: %s",
		"pitch":   "Write a 30-second elevator pitch for: %s",
		"slogan":  "Generate 5 catchy slogans for: %s",
		"mission": "Write a mission statement for: %s",
	}

	emailPrompts = map[string]string{
		"sales":      "Write a professional sales email based on: %s",
		"welcome":    "Write a warm welcome email based on: %s",
		"followup":   "Write a follow-up email based on: %s",
		"apology":    "Write a sincere apology email based on: %s",
		"newsletter": "Write an engaging newsletter email based on: %s",
	}

	socialPrompts = map[string]string{
		"twitter":   "Write a Twitter/X post (max 280 characters) about: %s",
		"linkedin":  "Write a professional LinkedIn post about: %s",
		"instagram": "Write an Instagram caption with relevant hashtags about: %s",
		"facebook":  "Write a Facebook post about: %s",
		"tiktok":    "Write a TikTok video caption with trending hashtags about: %s",
	}

	brandPrompts = map[string]string{
		"slogan":  "Create a brand slogan for: %s",
		"tagline": "Create a brand tagline for: %s",
		"mission": "Write a brand mission statement for: %s",
		"values":  "Define brand values for: %s",
		"story":   "Write a brand story for: %s",
	}
)

// AssistantService proxies chat-completion requests to the provider. It holds
// no state of its own; failures surface as typed upstream errors carrying the
// provider's message.
type AssistantService struct {
	client ChatClient
}

// NewAssistantService creates a new AssistantService instance. client may be
// nil when no provider credential is configured.
func NewAssistantService(client ChatClient) *AssistantService {
	return &AssistantService{client: client}
}

// Chat forwards a raw prompt with up to the last ten history turns.
func (s *AssistantService) Chat(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "AssistantService.Chat", telemetry.SpanAttributes{
		Operation: "chat",
	})
	defer span.End()

	if s.client == nil {
		return nil, domain.ErrAssistantNotConfigured
	}
	if strings.TrimSpace(input.Prompt) == "" {
		return nil, domain.ErrEmptyPrompt
	}

	model := input.Model
	if model == "" {
		model = DefaultChatModel
	}

	messages := make([]ChatMessage, 0, len(input.History)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: assistantSystemPrompt})

	history := input.History
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	for _, msg := range history {
		role := "assistant"
		if msg.Role == "user" {
			role = "user"
		}
		messages = append(messages, ChatMessage{Role: role, Content: msg.Content})
	}

	messages = append(messages, ChatMessage{Role: "user", Content: input.Prompt})

	content, err := s.client.CreateChatCompletion(ctx, model, messages)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewUpstreamError("openai", err)
	}

	return &ChatOutput{Content: content, Model: model}, nil
}

// BusinessCopy generates copy for one of the business tools (name, plan,
// pitch, slogan, mission).
func (s *AssistantService) BusinessCopy(ctx context.Context, toolType string, input ChatInput) (*ChatOutput, error) {
	return s.templated(ctx, businessPrompts, toolType, input)
}

// EmailCopy generates one of the email templates.
func (s *AssistantService) EmailCopy(ctx context.Context, emailType string, input ChatInput) (*ChatOutput, error) {
	return s.templated(ctx, emailPrompts, emailType, input)
}

// SocialCopy generates a post for the given platform.
func (s *AssistantService) SocialCopy(ctx context.Context, platform string, input ChatInput) (*ChatOutput, error) {
	return s.templated(ctx, socialPrompts, platform, input)
}

// BrandCopy generates brand content of the given type.
func (s *AssistantService) BrandCopy(ctx context.Context, brandType string, input ChatInput) (*ChatOutput, error) {
	return s.templated(ctx, brandPrompts, brandType, input)
}

// BlogPost generates a full blog post about the prompt.
func (s *AssistantService) BlogPost(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	input.Prompt = fmt.Sprintf("Write a blog post about: %s", input.Prompt)
	return s.Chat(ctx, input)
}

// BlogOutline generates a detailed blog post outline.
func (s *AssistantService) BlogOutline(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	input.Prompt = fmt.Sprintf("Create a detailed blog post outline for: %s", input.Prompt)
	return s.Chat(ctx, input)
}

func (s *AssistantService) templated(ctx context.Context, prompts map[string]string, key string, input ChatInput) (*ChatOutput, error) {
	template, ok := prompts[key]
	if !ok {
		return nil, domain.ErrInvalidAgentTool
	}
	if strings.TrimSpace(input.Prompt) == "" {
		return nil, domain.ErrEmptyPrompt
	}

	input.Prompt = fmt.Sprintf(template, input.Prompt)
	input.History = nil
	return s.Chat(ctx, input)
}
