package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mindflow/mindflow/internal/components"
	"github.com/mindflow/mindflow/internal/model"
	"github.com/mindflow/mindflow/internal/store"
)

type TrackResult struct {
	Interaction model.Interaction `json:"interaction"`
	Learning    string            `json:"learning"`
}

type InteractionService struct {
	store store.Store
	now   func() time.Time
}

func NewInteractionService(s store.Store) *InteractionService {
	return &InteractionService{store: s, now: time.Now}
}

// Track records whether a widget helped. The component must be a known widget.
func (s *InteractionService) Track(ctx context.Context, component string, helpful bool, feedback string) (TrackResult, error) {
	id, err := components.ParseID(component)
	if err != nil {
		return TrackResult{}, model.Validationf("%v", err)
	}
	in := model.Interaction{
		ID:        uuid.NewString(),
		Component: string(id),
		Helpful:   helpful,
		Feedback:  feedback,
		Timestamp: s.now().UTC(),
	}
	if err := in.Validate(); err != nil {
		return TrackResult{}, err
	}
	if err := s.store.Interactions().Append(ctx, in); err != nil {
		return TrackResult{}, err
	}
	verdict := "helpful"
	if !helpful {
		verdict = "not helpful"
	}
	return TrackResult{Interaction: in, Learning: fmt.Sprintf("Noted: %s was %s", id, verdict)}, nil
}

func (s *InteractionService) List(ctx context.Context) ([]model.Interaction, error) {
	return s.store.Interactions().List(ctx)
}
