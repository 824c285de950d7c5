package api

import (
	"fmt"
	"net/http"

	respond "github.com/mindflow/mindflow/internal/api/respond"
	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/wellness"
)

// WellnessHandler serves the static guidance endpoints.
type WellnessHandler struct{}

func NewWellnessHandler() *WellnessHandler { return &WellnessHandler{} }

// JournalPrompts GET /api/journal-prompts?mood=M
func (h *WellnessHandler) JournalPrompts(w http.ResponseWriter, r *http.Request) {
	mood := model.Mood(r.URL.Query().Get("mood"))
	if mood == "" {
		mood = model.MoodCalm
	}
	if !mood.Valid() {
		respond.WriteBadRequest(w, fmt.Sprintf("unknown mood %q", mood))
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"mood":     mood,
		"prompts":  wellness.JournalPrompts(mood),
		"guidance": fmt.Sprintf("These prompts are designed to help process %s feelings.", mood),
	})
}

// Resources GET /api/resources?urgency=U&location=L
func (h *WellnessHandler) Resources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	u, err := wellness.ParseUrgency(q.Get("urgency"))
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, wellness.EmergencyResources(u, q.Get("location")))
}
