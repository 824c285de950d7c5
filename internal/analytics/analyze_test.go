package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindflow/mindflow/internal/model"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func series(mood model.Mood, intensities ...int) []model.MoodEntry {
	out := make([]model.MoodEntry, len(intensities))
	for i, v := range intensities {
		out[i] = model.MoodEntry{
			Timestamp: now.Add(-time.Duration(len(intensities)-i) * time.Hour),
			Mood:      mood,
			Intensity: v,
		}
	}
	return out
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(nil, 7, now)
	assert.Equal(t, 0, a.EntriesCount)
	assert.Equal(t, model.TrendStable, a.Trend)
	assert.Equal(t, model.MoodNeutral, a.DominantMood)
	assert.Equal(t, 0.0, a.AverageIntensity)
	assert.Equal(t, []string{InsightStartTracking}, a.Insights)
}

func TestAnalyzeWindowExcludesOldEntries(t *testing.T) {
	entries := []model.MoodEntry{
		{Timestamp: now.Add(-10 * 24 * time.Hour), Mood: model.MoodSad, Intensity: 9},
		{Timestamp: now.Add(-7 * 24 * time.Hour), Mood: model.MoodCalm, Intensity: 4},
		{Timestamp: now.Add(-time.Hour), Mood: model.MoodCalm, Intensity: 5},
	}
	a := Analyze(entries, 7, now)
	assert.Equal(t, 2, a.EntriesCount, "boundary entry is inclusive")
	assert.Equal(t, 4.5, a.AverageIntensity)
	assert.Equal(t, model.MoodCalm, a.DominantMood)

	a = Analyze(entries, 30, now)
	assert.Equal(t, 3, a.EntriesCount)
}

func TestAnalyzeDefaultsDays(t *testing.T) {
	entries := []model.MoodEntry{{Timestamp: now.Add(-8 * 24 * time.Hour), Mood: model.MoodCalm, Intensity: 4}}
	assert.Equal(t, 0, Analyze(entries, 0, now).EntriesCount)
}

func TestAnalyzeTrend(t *testing.T) {
	improving := Analyze(series(model.MoodCalm, 2, 2, 2, 8, 8, 8), 7, now)
	assert.Equal(t, model.TrendImproving, improving.Trend)
	assert.Equal(t, InsightImproving, improving.Insights[0])

	declining := Analyze(series(model.MoodCalm, 8, 8, 8, 2, 2, 2), 7, now)
	assert.Equal(t, model.TrendDeclining, declining.Trend)
	assert.Equal(t, InsightDeclining, declining.Insights[0])

	stable := Analyze(series(model.MoodCalm, 5, 6, 5, 6), 7, now)
	assert.Equal(t, model.TrendStable, stable.Trend)
	assert.Empty(t, stable.Insights)

	// exactly one point apart is not a trend
	assert.Equal(t, model.TrendStable, Analyze(series(model.MoodCalm, 4, 4, 5, 5), 7, now).Trend)

	// odd counts put the extra entry in the later half: [3] vs [3,9] -> 3 vs 6
	assert.Equal(t, model.TrendImproving, Analyze(series(model.MoodCalm, 3, 3, 9), 7, now).Trend)
}

func TestAnalyzeSingleEntryComparesAgainstZero(t *testing.T) {
	a := Analyze(series(model.MoodCalm, 5), 7, now)
	assert.Equal(t, model.TrendImproving, a.Trend)

	a = Analyze(series(model.MoodCalm, 1), 7, now)
	assert.Equal(t, model.TrendStable, a.Trend)
}

func TestAnalyzeDominantMood(t *testing.T) {
	var entries []model.MoodEntry
	entries = append(entries, series(model.MoodCalm, 5, 5)...)
	entries = append(entries, series(model.MoodAnxious, 5, 5, 5)...)
	entries = append(entries, series(model.MoodSad, 5)...)
	a := Analyze(entries, 7, now)
	assert.Equal(t, model.MoodAnxious, a.DominantMood)
	assert.Contains(t, a.Insights, InsightAnxiety)
}

func TestAnalyzeDominantMoodTieGoesToFirstSeen(t *testing.T) {
	entries := []model.MoodEntry{
		{Timestamp: now.Add(-4 * time.Hour), Mood: model.MoodSad, Intensity: 5},
		{Timestamp: now.Add(-3 * time.Hour), Mood: model.MoodJoyful, Intensity: 5},
		{Timestamp: now.Add(-2 * time.Hour), Mood: model.MoodJoyful, Intensity: 5},
		{Timestamp: now.Add(-1 * time.Hour), Mood: model.MoodSad, Intensity: 5},
	}
	assert.Equal(t, model.MoodSad, Analyze(entries, 7, now).DominantMood)
}

func TestAnalyzeInsightOrder(t *testing.T) {
	// stressed, rising, intense and sparse: every insight fires in priority order
	entries := []model.MoodEntry{
		{Timestamp: now.Add(-2 * time.Hour), Mood: model.MoodStressed, Intensity: 6},
		{Timestamp: now.Add(-1 * time.Hour), Mood: model.MoodStressed, Intensity: 10},
	}
	a := Analyze(entries, 7, now)
	require.Equal(t, 8.0, a.AverageIntensity)
	assert.Equal(t, []string{InsightImproving, InsightAnxiety, InsightIntense, InsightKeepTracking}, a.Insights)
}

func TestAnalyzeRoundsAverage(t *testing.T) {
	a := Analyze(series(model.MoodCalm, 3, 3, 4), 7, now)
	assert.Equal(t, 3.3, a.AverageIntensity)
}

func TestAnalyzeIntenseUsesUnroundedMean(t *testing.T) {
	intensities := make([]int, 0, 25)
	for i := 0; i < 24; i++ {
		intensities = append(intensities, 7)
	}
	intensities = append(intensities, 8) // mean 7.04

	a := Analyze(series(model.MoodCalm, intensities...), 7, now)
	assert.Equal(t, 7.0, a.AverageIntensity)
	assert.Contains(t, a.Insights, InsightIntense)

	a = Analyze(series(model.MoodCalm, 7, 7, 7), 7, now)
	assert.NotContains(t, a.Insights, InsightIntense)
}
