package selector

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mindflow/mindflow/internal/components"
)

var (
	errNoJSON            = errors.New("reply contains no JSON object")
	errMalformedJSON     = errors.New("reply JSON is malformed")
	errMissingComponents = errors.New("reply JSON has no components field")
)

type reply struct {
	Response   string
	Components []components.Selection
	Dropped    []string
}

// extractReply pulls the outermost {...} span out of text, tolerating prose
// around it. The raw text stands in when the object has no response.
func extractReply(text string) (reply, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return reply{}, errNoJSON
	}

	var raw struct {
		Response   string          `json:"response"`
		Components json.RawMessage `json:"components"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return reply{}, fmt.Errorf("%w: %v", errMalformedJSON, err)
	}
	if len(raw.Components) == 0 || string(raw.Components) == "null" {
		return reply{}, errMissingComponents
	}
	sels, dropped, err := components.DecodeSelections(raw.Components)
	if err != nil {
		return reply{}, fmt.Errorf("%w: %v", errMalformedJSON, err)
	}

	out := reply{Response: raw.Response, Components: sels, Dropped: dropped}
	if strings.TrimSpace(out.Response) == "" {
		out.Response = text
	}
	return out, nil
}

// reasonFor names an extraction failure for metrics.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, errNoJSON):
		return ReasonNoJSON
	case errors.Is(err, errMissingComponents):
		return ReasonMissingComponents
	default:
		return ReasonMalformedJSON
	}
}
