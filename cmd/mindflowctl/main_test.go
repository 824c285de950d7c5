package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mindflow/mindflow/internal/api"
	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/selector"
	"github.com/mindflow/mindflow/internal/services"
	"github.com/mindflow/mindflow/internal/store"
	"github.com/mindflow/mindflow/internal/store/memstore"
	"github.com/mindflow/mindflow/internal/usage"
)

// newAPI serves the real router backed by memory storage and no remote model.
func newAPI(t *testing.T) string {
	t.Helper()
	log := zerolog.Nop()
	st := memstore.New(store.Options{})
	sel, err := selector.NewAISelector(nil)
	require.NoError(t, err)
	router := api.NewRouter(api.Deps{
		Chat:         services.NewChatService(sel, log),
		Moods:        services.NewMoodService(st, log),
		Interactions: services.NewInteractionService(st),
		Usage:        usage.NewTracker(10),
		Log:          log,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestChatFallback(t *testing.T) {
	base := newAPI(t)
	var out bytes.Buffer
	require.NoError(t, runChat(base, "I feel anxious about tomorrow", &out))
	s := out.String()
	require.Contains(t, s, "source: fallback (ai available: false)")
	require.Contains(t, s, "BreathingExercise")
	require.Contains(t, s, "AnxietyGrounding")
}

func TestChatRequiresMessage(t *testing.T) {
	require.Error(t, runChat("http://unused", "   ", &bytes.Buffer{}))
}

func TestMoodLifecycle(t *testing.T) {
	base := newAPI(t)
	var out bytes.Buffer

	require.NoError(t, runMoodHistory(base, &out))
	require.Equal(t, "no mood entries\n", out.String())

	out.Reset()
	err := runMoodLog(base, model.MoodEntry{Mood: model.MoodAnxious, Intensity: 8, Activities: []string{"work"}, Notes: "deadline"}, &out)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out.String(), "logged anxious (8/10)"), out.String())

	out.Reset()
	require.NoError(t, runMoodHistory(base, &out))
	require.Contains(t, out.String(), "anxious")
	require.Contains(t, out.String(), "[work]")
	require.Contains(t, out.String(), "deadline")

	out.Reset()
	require.NoError(t, runMoodAnalyze(base, 7, &out))
	require.Contains(t, out.String(), "entries: 1")
	require.Contains(t, out.String(), "dominant: anxious")

	out.Reset()
	require.NoError(t, runMoodClear(base, &out))
	out.Reset()
	require.NoError(t, runMoodHistory(base, &out))
	require.Equal(t, "no mood entries\n", out.String())
}

func TestMoodLogRejectsBadIntensity(t *testing.T) {
	base := newAPI(t)
	err := runMoodLog(base, model.MoodEntry{Mood: model.MoodCalm, Intensity: 11}, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "http 400")
}

func TestAnalyzeOutOfRange(t *testing.T) {
	base := newAPI(t)
	err := runMoodAnalyze(base, 365, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "http 400")
}

func TestPromptsAndResources(t *testing.T) {
	base := newAPI(t)
	var out bytes.Buffer
	require.NoError(t, runPrompts(base, "anxious", &out))
	require.Contains(t, out.String(), "1. What specific thoughts are making you feel anxious right now?")

	out.Reset()
	require.NoError(t, runResources(base, "critical", "", &out))
	require.Contains(t, out.String(), "911")
	require.Contains(t, out.String(), "988")

	require.Error(t, runResources(base, "extreme", "", &bytes.Buffer{}))
}

func TestFeedback(t *testing.T) {
	base := newAPI(t)
	var out bytes.Buffer
	require.NoError(t, runFeedback(base, "BreathingExercise", false, "too long", &out))
	require.Equal(t, "Noted: BreathingExercise was not helpful\n", out.String())

	require.Error(t, runFeedback(base, "Unknown", true, "", &bytes.Buffer{}))
}

func TestJSONFlag(t *testing.T) {
	base := newAPI(t)
	jsonFlag = true
	t.Cleanup(func() { jsonFlag = false })

	var out bytes.Buffer
	require.NoError(t, runHealth(base, &out))
	require.Contains(t, out.String(), "\"aiAvailable\": false")
}
