package api

import (
	"net/http"

	respond "github.com/mindflow/mindflow/internal/api/respond"
	"github.com/mindflow/mindflow/internal/api/validate"
	"github.com/mindflow/mindflow/internal/services"
	"github.com/mindflow/mindflow/internal/usage"
)

type InteractionHandler struct {
	svc *services.InteractionService
}

func NewInteractionHandler(svc *services.InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

// Track POST /api/interactions
func (h *InteractionHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ComponentName string `json:"componentName"`
		Helpful       *bool  `json:"helpful"`
		Feedback      string `json:"feedback,omitempty"`
	}
	if err := validate.DecodeJSON(w, r, &req); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.NonEmpty("componentName", req.ComponentName); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.Helpful == nil {
		respond.WriteBadRequest(w, "helpful is required")
		return
	}
	out, err := h.svc.Track(r.Context(), req.ComponentName, *req.Helpful, req.Feedback)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// List GET /api/interactions
func (h *InteractionHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"interactions": items, "count": len(items)})
}

// UsageHandler exposes the in-process usage tracker.
type UsageHandler struct {
	tracker *usage.Tracker
}

func NewUsageHandler(t *usage.Tracker) *UsageHandler { return &UsageHandler{tracker: t} }

// Stats GET /api/usage
func (h *UsageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, h.tracker.Stats())
}
