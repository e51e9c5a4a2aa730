package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mainstreet-labs/mainstreet/internal/api"
	"github.com/mainstreet-labs/mainstreet/internal/service"
)

type AssistantProvider interface {
	Chat(ctx context.Context, input service.ChatInput) (*service.ChatOutput, error)
	BusinessCopy(ctx context.Context, toolType string, input service.ChatInput) (*service.ChatOutput, error)
	EmailCopy(ctx context.Context, emailType string, input service.ChatInput) (*service.ChatOutput, error)
	SocialCopy(ctx context.Context, platform string, input service.ChatInput) (*service.ChatOutput, error)
	BrandCopy(ctx context.Context, brandType string, input service.ChatInput) (*service.ChatOutput, error)
	BlogPost(ctx context.Context, input service.ChatInput) (*service.ChatOutput, error)
	BlogOutline(ctx context.Context, input service.ChatInput) (*service.ChatOutput, error)
}

type AssistantHandler struct {
	svc AssistantProvider
}

func NewAssistantHandler(svc AssistantProvider) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

type ChatMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Prompt  string               `json:"prompt"`
	Model   string               `json:"model"`
	History []ChatMessageRequest `json:"history"`
}

type ChatResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (service.ChatInput, bool) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return service.ChatInput{}, false
	}

	history := make([]service.ChatMessage, len(req.History))
	for i, msg := range req.History {
		history[i] = service.ChatMessage{Role: msg.Role, Content: msg.Content}
	}

	return service.ChatInput{
		Prompt:  req.Prompt,
		Model:   req.Model,
		History: history,
	}, true
}

func (h *AssistantHandler) respond(w http.ResponseWriter, output *service.ChatOutput, err error) {
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, ChatResponse{Content: output.Content, Model: output.Model})
}

// Chat handles POST /api/agents/chat.
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	output, err := h.svc.Chat(r.Context(), input)
	h.respond(w, output, err)
}

// Business handles POST /api/agents/business/{tool}.
func (h *AssistantHandler) Business(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	output, err := h.svc.BusinessCopy(r.Context(), chi.URLParam(r, "tool"), input)
	h.respond(w, output, err)
}

// Email handles POST /api/agents/email/{type}.
func (h *AssistantHandler) Email(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	output, err := h.svc.EmailCopy(r.Context(), chi.URLParam(r, "type"), input)
	h.respond(w, output, err)
}

// Social handles POST /api/agents/social/{platform}.
func (h *AssistantHandler) Social(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	output, err := h.svc.SocialCopy(r.Context(), chi.URLParam(r, "platform"), input)
	h.respond(w, output, err)
}

// Brand handles POST /api/agents/brand/{type}.
func (h *AssistantHandler) Brand(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	output, err := h.svc.BrandCopy(r.Context(), chi.URLParam(r, "type"), input)
	h.respond(w, output, err)
}

// BlogPost handles POST /api/agents/blog/post.
func (h *AssistantHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	output, err := h.svc.BlogPost(r.Context(), input)
	h.respond(w, output, err)
}

// BlogOutline handles POST /api/agents/blog/outline.
func (h *AssistantHandler) BlogOutline(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	output, err := h.svc.BlogOutline(r.Context(), input)
	h.respond(w, output, err)
}
