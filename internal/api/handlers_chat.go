package api

import (
	"net/http"

	respond "github.com/mindflow/mindflow/internal/api/respond"
	"github.com/mindflow/mindflow/internal/api/validate"
	"github.com/mindflow/mindflow/internal/services"
)

// ChatHandler is a thin HTTP transport over ChatService.
type ChatHandler struct {
	svc *services.ChatService
}

func NewChatHandler(svc *services.ChatService) *ChatHandler { return &ChatHandler{svc: svc} }

// Chat POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req services.ChatRequest
	if err := validate.DecodeJSON(w, r, &req); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Turn(r.Context(), req)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
