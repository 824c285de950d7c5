// Package selector decides which widgets accompany an assistant reply.
package selector

import (
	"regexp"
	"strings"

	"github.com/mindflow/mindflow/internal/components"
)

var crisisKeywords = []string{
	"suicide",
	"kill myself",
	"end it",
	"self-harm",
	"hurt myself",
	"die",
	"don't want to be here",
}

type rule struct {
	pattern *regexp.Regexp
	picks   []components.Selection
}

// Evaluated in order; every matching rule contributes its picks.
var rules = []rule{
	{
		pattern: regexp.MustCompile(`anxious|anxiety|panic|nervous|worried|stress`),
		picks: []components.Selection{
			{Component: components.BreathingExercise, Props: components.BreathingProps{Duration: 180, Intensity: "medium"}, Reasoning: "Anxiety detected"},
			{Component: components.AnxietyGrounding, Reasoning: "Additional anxiety support"},
		},
	},
	{
		pattern: regexp.MustCompile(`sleep|insomnia|can't sleep|tired|rest`),
		picks: []components.Selection{
			{Component: components.SleepWindDown, Reasoning: "Sleep issues detected"},
			{Component: components.MeditationGuide, Props: components.MeditationProps{Style: "sleep", Duration: 10}, Reasoning: "Sleep meditation"},
		},
	},
	{
		pattern: regexp.MustCompile(`sad|depressed|down|hopeless|lonely`),
		picks: []components.Selection{
			{Component: components.JournalPrompt, Props: components.JournalProps{Mood: "sad"}, Reasoning: "Processing sadness"},
			{Component: components.Affirmations, Props: components.AffirmationProps{Mood: "sad"}, Reasoning: "Uplifting support"},
		},
	},
	{
		pattern: regexp.MustCompile(`progress|dashboard|history|track|stats|trend|how i've been|how i have been|how am i doing|this week`),
		picks: []components.Selection{
			{Component: components.MoodDashboard, Reasoning: "Progress requested"},
		},
	},
	{
		pattern: regexp.MustCompile(`journal|write|reflect|process`),
		picks: []components.Selection{
			{Component: components.JournalPrompt, Props: components.JournalProps{Style: "stream"}, Reasoning: "Journaling requested"},
		},
	},
}

var defaultPick = components.Selection{Component: components.MoodTracker, Reasoning: "Default check-in"}

func crisisPick() components.Selection {
	return components.Selection{Component: components.CrisisResources, Reasoning: "Crisis keywords detected"}
}

// normalize lowercases and folds typographic apostrophes so "can’t" matches "can't".
func normalize(text string) string {
	return strings.ToLower(strings.NewReplacer("’", "'", "‘", "'").Replace(text))
}

// IsCrisis reports whether text contains any crisis keyword as a substring.
// Over-matching is accepted.
func IsCrisis(text string) bool {
	lower := normalize(text)
	for _, kw := range crisisKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Fallback selects widgets from keyword rules alone. A crisis match returns
// only CrisisResources; otherwise every matching rule contributes in order,
// with MoodTracker when nothing matches. The result is never empty.
func Fallback(text string) []components.Selection {
	if IsCrisis(text) {
		return []components.Selection{crisisPick()}
	}

	lower := normalize(text)
	var out []components.Selection
	for _, r := range rules {
		if r.pattern.MatchString(lower) {
			out = append(out, r.picks...)
		}
	}
	if len(out) == 0 {
		out = append(out, defaultPick)
	}
	return out
}
