// Package analytics derives trend summaries from the mood log.
package analytics

import (
	"math"
	"time"

	"github.com/mindflow/mindflow/internal/model"
)

// DefaultDays is the window used when the caller passes a non-positive value.
const DefaultDays = 7

const (
	InsightStartTracking = "Start tracking your mood to see patterns over time"
	InsightImproving     = "Your mood has been trending positively - great work! 🌟"
	InsightDeclining     = "Your mood has been trending down. Consider reaching out to a friend or professional."
	InsightAnxiety       = "You've experienced anxiety recently. Try breathing exercises or grounding techniques."
	InsightIntense       = "You've been experiencing intense emotions. Remember to practice self-compassion."
	InsightKeepTracking  = "Keep tracking your mood daily for more detailed insights."
)

// Analyze summarizes entries whose timestamp falls within days of now.
// entries must be in chronological insertion order.
func Analyze(entries []model.MoodEntry, days int, now time.Time) model.MoodAnalysis {
	if days <= 0 {
		days = DefaultDays
	}
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)

	recent := make([]model.MoodEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Timestamp.Before(cutoff) {
			recent = append(recent, e)
		}
	}

	if len(recent) == 0 {
		return model.MoodAnalysis{
			AverageIntensity: 0,
			DominantMood:     model.MoodNeutral,
			Trend:            model.TrendStable,
			Insights:         []string{InsightStartTracking},
			EntriesCount:     0,
		}
	}

	mean := meanIntensity(recent)
	dominant := dominantMood(recent)
	trend := trendOf(recent)

	var insights []string
	switch trend {
	case model.TrendImproving:
		insights = append(insights, InsightImproving)
	case model.TrendDeclining:
		insights = append(insights, InsightDeclining)
	}
	if dominant == model.MoodAnxious || dominant == model.MoodStressed {
		insights = append(insights, InsightAnxiety)
	}
	// Compared before rounding: 7.04 counts as intense.
	if mean > 7 {
		insights = append(insights, InsightIntense)
	}
	if len(recent) < 3 {
		insights = append(insights, InsightKeepTracking)
	}
	if insights == nil {
		insights = []string{}
	}

	return model.MoodAnalysis{
		AverageIntensity: round1(mean),
		DominantMood:     dominant,
		Trend:            trend,
		Insights:         insights,
		EntriesCount:     len(recent),
	}
}

// meanIntensity treats an empty slice as 0.
func meanIntensity(entries []model.MoodEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.Intensity
	}
	return float64(sum) / float64(len(entries))
}

// dominantMood returns the most frequent mood; ties go to the mood seen first.
func dominantMood(entries []model.MoodEntry) model.Mood {
	counts := make(map[model.Mood]int)
	var order []model.Mood
	for _, e := range entries {
		if counts[e.Mood] == 0 {
			order = append(order, e.Mood)
		}
		counts[e.Mood]++
	}
	best := order[0]
	for _, m := range order[1:] {
		if counts[m] > counts[best] {
			best = m
		}
	}
	return best
}

// trendOf compares the mean of the later half against the earlier half.
// For odd counts the extra entry belongs to the later half.
func trendOf(entries []model.MoodEntry) model.Trend {
	mid := len(entries) / 2
	first := meanIntensity(entries[:mid])
	second := meanIntensity(entries[mid:])
	switch {
	case second > first+1:
		return model.TrendImproving
	case second < first-1:
		return model.TrendDeclining
	default:
		return model.TrendStable
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
