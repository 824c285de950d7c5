package usage

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerAggregates(t *testing.T) {
	tr := NewTracker(2)
	tr.Record(Event{Provider: "openrouter", PromptTokens: 100, CompletionTokens: 50})
	tr.Record(Event{Provider: "openrouter", TotalTokens: 1_000_000})
	tr.Record(Event{Provider: "openrouter", TotalTokens: 10})

	st := tr.Stats()
	assert.Equal(t, 3, st.TotalRequests)
	assert.Equal(t, 1_000_160, st.TotalTokens)
	assert.InDelta(t, 15.0024, st.TotalCost, 1e-6)
	require.Len(t, st.Entries, 2)
	assert.Equal(t, 10, st.Entries[1].TotalTokens)
	assert.False(t, st.Entries[0].Timestamp.IsZero())

	tr.Reset()
	assert.Equal(t, Stats{Entries: []Event{}}, tr.Stats())
}

func TestEstimateCost(t *testing.T) {
	assert.InDelta(t, 0.03, EstimateCost(2000), 1e-9)
}

func TestMultiAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	tr := NewTracker(10)
	Multi{tr, m, nil}.Record(Event{Provider: "gemini", Model: "g", PromptTokens: 3, CompletionTokens: 4})

	assert.Equal(t, 1, tr.Stats().TotalRequests)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("gemini", "g")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.tokens.WithLabelValues("gemini", "completion")))

	m.ObserveTurn("fallback", "provider_error")
	m.ObserveTurn("fallback", "provider_error")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.turns.WithLabelValues("fallback", "provider_error")))
}
