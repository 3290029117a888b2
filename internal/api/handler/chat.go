package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ozeirr/ai-chatbot-platform/internal/api/middleware"
	"github.com/Ozeirr/ai-chatbot-platform/internal/api/response"
	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/Ozeirr/ai-chatbot-platform/internal/service"
)

// ChatHandler handles chat endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat handles one chat exchange. Generation failures are absorbed into a
// fallback answer, so the widget only sees an error for a bad session or a
// storage failure.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	resp, err := h.chatService.Chat(r.Context(), client, input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "chat session not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, resp)
}

// GetSession handles getting a chat session
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	sessionID, ok := parseID(w, r, "sessionID")
	if !ok {
		return
	}

	session, err := h.chatService.GetSession(r.Context(), client.ID, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "chat session not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, session)
}

// EndSession handles ending a chat session
func (h *ChatHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	sessionID, ok := parseID(w, r, "sessionID")
	if !ok {
		return
	}

	session, err := h.chatService.EndSession(r.Context(), client.ID, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "chat session not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, session)
}

// ListMessages handles listing a session's messages
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	client, ok := middleware.GetClient(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	sessionID, ok := parseID(w, r, "sessionID")
	if !ok {
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), client.ID, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "chat session not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, messages)
}
