package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindflow/mindflow/internal/analytics"
	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/store"
	"github.com/mindflow/mindflow/internal/wellness"
)

// MaxAnalysisDays bounds the analysis window.
const MaxAnalysisDays = 90

type MoodService struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewMoodService(s store.Store, log zerolog.Logger) *MoodService {
	return &MoodService{store: s, log: log, now: time.Now}
}

// Log validates and appends an entry. A zero timestamp means now.
func (s *MoodService) Log(ctx context.Context, e model.MoodEntry) (model.MoodEntry, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now().UTC()
	}
	if err := e.Validate(); err != nil {
		return model.MoodEntry{}, err
	}
	if err := s.store.Moods().Append(ctx, e); err != nil {
		return model.MoodEntry{}, err
	}
	return e, nil
}

// History returns the stored log. Load failures degrade to an empty log.
func (s *MoodService) History(ctx context.Context) []model.MoodEntry {
	entries, err := s.store.Moods().List(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("mood history unavailable; treating as empty")
		return []model.MoodEntry{}
	}
	return entries
}

func (s *MoodService) Clear(ctx context.Context) error {
	return s.store.Moods().Clear(ctx)
}

// Analyze summarizes the trailing window of days, clamped to [1,90].
func (s *MoodService) Analyze(ctx context.Context, days int) model.MoodAnalysis {
	return analytics.Analyze(s.History(ctx), ClampDays(days), s.now())
}

// Context describes the current moment, optionally with recent moods.
func (s *MoodService) Context(ctx context.Context, includeHistory bool) wellness.MoodContext {
	return wellness.Context(s.now(), s.History(ctx), includeHistory)
}

// ClampDays maps non-positive values to the default window and caps at MaxAnalysisDays.
func ClampDays(days int) int {
	switch {
	case days <= 0:
		return analytics.DefaultDays
	case days > MaxAnalysisDays:
		return MaxAnalysisDays
	}
	return days
}
