package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mindflow/mindflow/internal/api/recovery"
	respond "github.com/mindflow/mindflow/internal/api/respond"
	"github.com/mindflow/mindflow/internal/services"
	"github.com/mindflow/mindflow/internal/usage"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Chat         *services.ChatService
	Moods        *services.MoodService
	Interactions *services.InteractionService
	Usage        *usage.Tracker
	Health       *HealthHandler
	Gatherer     prometheus.Gatherer // nil disables /metrics
	Log          zerolog.Logger
}

// NewRouter registers every route of the wellness API.
func NewRouter(d Deps) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware(d.Log))
	root.Use(accessLog(d.Log))

	chat := NewChatHandler(d.Chat)
	moods := NewMoodHandler(d.Moods)
	wh := NewWellnessHandler()
	ih := NewInteractionHandler(d.Interactions)
	uh := NewUsageHandler(d.Usage)
	health := d.Health
	if health == nil {
		health = NewHealthHandler(d.Chat.AIAvailable)
	}

	root.HandleFunc("/api/health", health.CheckHealth).Methods("GET")

	root.HandleFunc("/api/chat", chat.Chat).Methods("POST")

	root.HandleFunc("/api/moods", moods.LogMood).Methods("POST")
	root.HandleFunc("/api/moods", moods.ListMoods).Methods("GET")
	root.HandleFunc("/api/moods", moods.ClearMoods).Methods("DELETE")
	root.HandleFunc("/api/moods/analysis", moods.Analyze).Methods("GET")
	root.HandleFunc("/api/moods/context", moods.Context).Methods("GET")

	root.HandleFunc("/api/journal-prompts", wh.JournalPrompts).Methods("GET")
	root.HandleFunc("/api/resources", wh.Resources).Methods("GET")

	root.HandleFunc("/api/interactions", ih.Track).Methods("POST")
	root.HandleFunc("/api/interactions", ih.List).Methods("GET")

	root.HandleFunc("/api/usage", uh.Stats).Methods("GET")

	root.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteNotFound(w, "no route for "+r.URL.Path)
	})
	root.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.WriteError(w, http.StatusMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
	})

	if d.Gatherer != nil {
		root.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}
	return root
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// accessLog tags each request with an ID and logs method, path, status and latency.
func accessLog(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get("X-Request-Id")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set("X-Request-Id", reqID)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			log.Debug().
				Str("req_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("elapsed", time.Since(start)).
				Msg("http request")
		})
	}
}
