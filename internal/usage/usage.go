// Package usage records token consumption of remote providers.
package usage

import (
	"math"
	"sync"
	"time"
)

// CostPerMillionTokens is the flat rate used for cost estimates, in USD.
const CostPerMillionTokens = 15.0

// Event is one successful provider call.
type Event struct {
	Timestamp        time.Time `json:"timestamp"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"promptTokens"`
	CompletionTokens int       `json:"completionTokens"`
	TotalTokens      int       `json:"totalTokens"`
	EstimatedCost    float64   `json:"estimatedCost"`
}

// EstimateCost converts a token count into dollars.
func EstimateCost(totalTokens int) float64 {
	return float64(totalTokens) / 1_000_000 * CostPerMillionTokens
}

// Recorder receives usage events. Implementations must be safe for concurrent use.
type Recorder interface {
	Record(e Event)
}

// Nop discards events.
type Nop struct{}

func (Nop) Record(Event) {}

// Multi fans an event out to several recorders.
type Multi []Recorder

func (m Multi) Record(e Event) {
	for _, r := range m {
		if r != nil {
			r.Record(e)
		}
	}
}

// Stats is an aggregate snapshot.
type Stats struct {
	TotalRequests int     `json:"totalRequests"`
	TotalTokens   int     `json:"totalTokens"`
	TotalCost     float64 `json:"totalCost"`
	Entries       []Event `json:"entries"`
}

// Tracker keeps running totals plus the most recent events in memory.
type Tracker struct {
	mu       sync.Mutex
	keep     int
	recent   []Event
	requests int
	tokens   int
	cost     float64
}

// NewTracker retains up to keep recent events; totals cover every event.
func NewTracker(keep int) *Tracker {
	if keep <= 0 {
		keep = 100
	}
	return &Tracker{keep: keep}
}

func (t *Tracker) Record(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.TotalTokens == 0 {
		e.TotalTokens = e.PromptTokens + e.CompletionTokens
	}
	if e.EstimatedCost == 0 {
		e.EstimatedCost = EstimateCost(e.TotalTokens)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests++
	t.tokens += e.TotalTokens
	t.cost += e.EstimatedCost
	t.recent = append(t.recent, e)
	if over := len(t.recent) - t.keep; over > 0 {
		t.recent = append([]Event(nil), t.recent[over:]...)
	}
}

// Stats returns a copy of the current aggregate.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{
		TotalRequests: t.requests,
		TotalTokens:   t.tokens,
		TotalCost:     math.Round(t.cost*1e6) / 1e6,
		Entries:       append([]Event{}, t.recent...),
	}
}

// Reset clears totals and history.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recent = nil
	t.requests, t.tokens, t.cost = 0, 0, 0
}
