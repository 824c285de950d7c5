package usage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports usage and selection outcomes as Prometheus counters.
type Metrics struct {
	requests *prometheus.CounterVec
	tokens   *prometheus.CounterVec
	turns    *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mindflow",
				Name:      "llm_requests_total",
				Help:      "Successful provider completions.",
			},
			[]string{"provider", "model"},
		),
		tokens: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mindflow",
				Name:      "llm_tokens_total",
				Help:      "Tokens consumed by provider completions.",
			},
			[]string{"provider", "kind"},
		),
		turns: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mindflow",
				Name:      "selector_turns_total",
				Help:      "Component selection turns by source and fallback reason.",
			},
			[]string{"source", "reason"},
		),
	}
}

func (m *Metrics) Record(e Event) {
	m.requests.WithLabelValues(e.Provider, e.Model).Inc()
	m.tokens.WithLabelValues(e.Provider, "prompt").Add(float64(e.PromptTokens))
	m.tokens.WithLabelValues(e.Provider, "completion").Add(float64(e.CompletionTokens))
}

// ObserveTurn counts one selection turn.
func (m *Metrics) ObserveTurn(source, reason string) {
	m.turns.WithLabelValues(source, reason).Inc()
}
