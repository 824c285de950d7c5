package components

import (
	"encoding/json"
	"fmt"
)

// Props is the typed payload carried by a selection. Each variant belongs to
// exactly one component; widgets without parameters carry nil.
type Props interface {
	Component() ID
}

// BreathingProps parameterizes BreathingExercise. Duration is in seconds.
type BreathingProps struct {
	Duration  int    `json:"duration,omitempty"`
	Intensity string `json:"intensity,omitempty"`
}

func (BreathingProps) Component() ID { return BreathingExercise }

// JournalProps parameterizes JournalPrompt.
type JournalProps struct {
	Mood  string `json:"mood,omitempty"`
	Style string `json:"style,omitempty"`
}

func (JournalProps) Component() ID { return JournalPrompt }

// MeditationProps parameterizes MeditationGuide. Duration is in minutes.
type MeditationProps struct {
	Style    string `json:"style,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

func (MeditationProps) Component() ID { return MeditationGuide }

// DashboardProps parameterizes MoodDashboard.
type DashboardProps struct {
	Days int `json:"days,omitempty"`
}

func (DashboardProps) Component() ID { return MoodDashboard }

// AffirmationProps parameterizes Affirmations.
type AffirmationProps struct {
	Mood string `json:"mood,omitempty"`
}

func (AffirmationProps) Component() ID { return Affirmations }

// decodeProps decodes raw into the payload type owned by id. Unknown keys
// are ignored and a field whose value has the wrong type is left zero
// without discarding its siblings.
func decodeProps(id ID, raw json.RawMessage) Props {
	switch id {
	case BreathingExercise:
		return decodeLoose[BreathingProps](raw)
	case JournalPrompt:
		return decodeLoose[JournalProps](raw)
	case MeditationGuide:
		return decodeLoose[MeditationProps](raw)
	case MoodDashboard:
		return decodeLoose[DashboardProps](raw)
	case Affirmations:
		return decodeLoose[AffirmationProps](raw)
	}
	return nil
}

// decodeLoose applies each top-level key of raw to T on its own.
func decodeLoose[T Props](raw json.RawMessage) Props {
	var out T
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil {
		return out
	}
	for k, v := range fields {
		one, err := json.Marshal(map[string]json.RawMessage{k: v})
		if err != nil {
			continue
		}
		next := out
		if json.Unmarshal(one, &next) == nil {
			out = next
		}
	}
	return out
}

// checkProps ensures p belongs to id.
func checkProps(id ID, p Props) error {
	if p == nil {
		return nil
	}
	if p.Component() != id {
		return fmt.Errorf("props for %s attached to %s", p.Component(), id)
	}
	return nil
}
