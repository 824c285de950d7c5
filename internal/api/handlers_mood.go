package api

import (
	"net/http"
	"time"

	"github.com/mindflow/mindflow/internal/analytics"
	respond "github.com/mindflow/mindflow/internal/api/respond"
	"github.com/mindflow/mindflow/internal/api/validate"
	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/services"
)

type MoodHandler struct {
	svc *services.MoodService
}

func NewMoodHandler(svc *services.MoodService) *MoodHandler { return &MoodHandler{svc: svc} }

type logMoodRequest struct {
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	Mood       model.Mood `json:"mood"`
	Intensity  int        `json:"intensity"`
	Activities []string   `json:"activities,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// LogMood POST /api/moods
func (h *MoodHandler) LogMood(w http.ResponseWriter, r *http.Request) {
	var req logMoodRequest
	if err := validate.DecodeJSON(w, r, &req); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	e := model.MoodEntry{Mood: req.Mood, Intensity: req.Intensity, Activities: req.Activities, Notes: req.Notes}
	if req.Timestamp != nil {
		e.Timestamp = req.Timestamp.UTC()
	}
	out, err := h.svc.Log(r.Context(), e)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListMoods GET /api/moods
func (h *MoodHandler) ListMoods(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.History(r.Context())
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": entries, "count": len(entries)})
}

// ClearMoods DELETE /api/moods
func (h *MoodHandler) ClearMoods(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Analyze GET /api/moods/analysis?days=N
func (h *MoodHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	days, err := validate.IntInRange("days", r.URL.Query().Get("days"), 1, services.MaxAnalysisDays, analytics.DefaultDays)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, h.svc.Analyze(r.Context(), days))
}

// Context GET /api/moods/context?includeHistory=bool
func (h *MoodHandler) Context(w http.ResponseWriter, r *http.Request) {
	include, err := validate.Bool("includeHistory", r.URL.Query().Get("includeHistory"), true)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, h.svc.Context(r.Context(), include))
}
