package model

import "time"

// Mood is one of the fixed emotional states a user can log.
type Mood string

const (
	MoodJoyful      Mood = "joyful"
	MoodCalm        Mood = "calm"
	MoodAnxious     Mood = "anxious"
	MoodSad         Mood = "sad"
	MoodAngry       Mood = "angry"
	MoodOverwhelmed Mood = "overwhelmed"
	MoodPeaceful    Mood = "peaceful"
	MoodStressed    Mood = "stressed"

	// MoodNeutral is only reported by analysis when there is nothing to analyze.
	MoodNeutral Mood = "neutral"
)

// Moods lists every loggable mood in display order.
var Moods = []Mood{
	MoodJoyful, MoodCalm, MoodAnxious, MoodSad,
	MoodAngry, MoodOverwhelmed, MoodPeaceful, MoodStressed,
}

// Valid reports whether m is a loggable mood.
func (m Mood) Valid() bool {
	for _, v := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

// MoodEntry is a single point-in-time mood observation. Entries are never
// mutated after they are appended to the log.
type MoodEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Mood       Mood      `json:"mood"`
	Intensity  int       `json:"intensity"`
	Activities []string  `json:"activities,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// Trend is the direction of intensity over an analysis window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// MoodAnalysis summarizes the entries that fall inside a trailing window.
type MoodAnalysis struct {
	AverageIntensity float64  `json:"averageIntensity"`
	DominantMood     Mood     `json:"dominantMood"`
	Trend            Trend    `json:"trend"`
	Insights         []string `json:"insights"`
	EntriesCount     int      `json:"entriesCount"`
}

// Interaction records whether a surfaced widget helped the user.
type Interaction struct {
	ID        string    `json:"id"`
	Component string    `json:"componentName"`
	Helpful   bool      `json:"helpful"`
	Feedback  string    `json:"feedback,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryLimit is the number of records retained per log.
const HistoryLimit = 100
