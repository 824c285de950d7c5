package wellness

import (
	"time"

	"github.com/mindflow/mindflow/internal/model"
)

// recentWindow is how many trailing entries a context carries.
const recentWindow = 5

// MoodContext describes the moment a session starts.
type MoodContext struct {
	TimeOfDay         string            `json:"timeOfDay"`
	CurrentHour       int               `json:"currentHour"`
	RecentMoods       []model.MoodEntry `json:"recentMoods"`
	SessionStart      time.Time         `json:"sessionStart"`
	HasHistoricalData bool              `json:"hasHistoricalData"`
	Suggestions       []string          `json:"suggestions"`
}

// TimeOfDay buckets an hour of the day.
func TimeOfDay(hour int) string {
	switch {
	case hour < 6:
		return "late night/early morning"
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	case hour < 21:
		return "evening"
	default:
		return "late evening"
	}
}

// Suggestions returns two nudges suited to the hour.
func Suggestions(hour int) []string {
	switch {
	case hour < 6:
		return []string{"Having trouble sleeping? Try the Sleep Wind Down routine.", "Consider gentle breathing exercises to calm your mind."}
	case hour < 12:
		return []string{"Start your day with positive affirmations.", "Morning is a great time for mood tracking."}
	case hour < 17:
		return []string{"Take a mindful break with a short meditation.", "Check in with your mood."}
	case hour < 21:
		return []string{"Evening is perfect for journaling and reflection.", "Wind down with gratitude practice."}
	default:
		return []string{"Prepare for restful sleep with our wind-down routine.", "Gentle breathing can help transition to sleep."}
	}
}

// Context builds a MoodContext at now. history is the chronological log;
// only its last five entries are attached, and only when includeHistory is set.
func Context(now time.Time, history []model.MoodEntry, includeHistory bool) MoodContext {
	recent := history
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	c := MoodContext{
		TimeOfDay:         TimeOfDay(now.Hour()),
		CurrentHour:       now.Hour(),
		RecentMoods:       []model.MoodEntry{},
		SessionStart:      now,
		HasHistoricalData: len(recent) > 0,
		Suggestions:       Suggestions(now.Hour()),
	}
	if includeHistory {
		c.RecentMoods = append(c.RecentMoods, recent...)
	}
	return c
}
