package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/parleyhq/parley/internal/api"
	"github.com/parleyhq/parley/internal/api/middleware"
	"github.com/parleyhq/parley/internal/service"
)

type ChatService interface {
	Chat(ctx context.Context, input service.ChatInput) (string, error)
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	AdvisorID string `json:"advisor_id"`
	Reply     string `json:"reply"`
}

// Chat handles POST /advisors/{id}/chat. One stateless turn per request.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		api.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.svc.Chat(r.Context(), service.ChatInput{
		AdvisorID: id,
		UserID:    middleware.GetUserID(r.Context()),
		Message:   req.Message,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ChatResponse{AdvisorID: id, Reply: reply})
}
